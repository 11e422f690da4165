package domain

import (
	"fmt"
	"strings"
)

// アスペクト比の列挙トークンです。Gemini の画像生成オプションにそのまま渡せる形式です。
const (
	AspectSquare    = "1:1"
	AspectLandscape = "16:9"
	AspectPortrait  = "9:16"
	AspectClassic   = "4:3"
	AspectTall      = "3:4"
)

// 画風の列挙トークンです。
const (
	StylePhotorealistic = "photorealistic"
	StyleAnime          = "anime"
	StyleWatercolor     = "watercolor"
	StyleOilPainting    = "oil-painting"
	Style3DRender       = "3d-render"
	StyleComicBook      = "comic-book"
)

// ライティングの列挙トークンです。
const (
	LightingNatural    = "natural"
	LightingGoldenHour = "golden-hour"
	LightingStudio     = "studio"
	LightingNeon       = "neon"
	LightingDramatic   = "dramatic-shadows"
	LightingSoft       = "soft-diffused"
)

// カメラパースペクティブの列挙トークンです。
const (
	CameraEyeLevel  = "eye-level"
	CameraLowAngle  = "low-angle"
	CameraHighAngle = "high-angle"
	CameraCloseUp   = "close-up"
	CameraWideShot  = "wide-shot"
	CameraDroneView = "drone-view"
)

// ImageCount の許容範囲です。
const (
	MinImageCount = 1
	MaxImageCount = 4
)

var validAspects = map[string]bool{
	AspectSquare: true, AspectLandscape: true, AspectPortrait: true,
	AspectClassic: true, AspectTall: true,
}

var validStyles = map[string]bool{
	StylePhotorealistic: true, StyleAnime: true, StyleWatercolor: true,
	StyleOilPainting: true, Style3DRender: true, StyleComicBook: true,
}

var validLightings = map[string]bool{
	LightingNatural: true, LightingGoldenHour: true, LightingStudio: true,
	LightingNeon: true, LightingDramatic: true, LightingSoft: true,
}

var validCameras = map[string]bool{
	CameraEyeLevel: true, CameraLowAngle: true, CameraHighAngle: true,
	CameraCloseUp: true, CameraWideShot: true, CameraDroneView: true,
}

// SceneState はプロンプト合成の唯一の入力となるシーン全体のスナップショットです。
// 列挙フィールドは常に上記トークンのいずれかを保持します（任意文字列は不可）。
type SceneState struct {
	Characters  Roster `json:"characters"`
	Objects     Roster `json:"objects"`
	Description string `json:"description"`

	Location *ReferenceImage `json:"location,omitempty"`
	Style    *ReferenceImage `json:"style,omitempty"`

	AspectRatio string `json:"aspectRatio"`
	ArtStyle    string `json:"artStyle"`
	Lighting    string `json:"lighting"`
	Camera      string `json:"camera"`
	ImageCount  int    `json:"imageCount"`
}

// Normalize は未設定の列挙フィールドにデフォルトを補い、生成枚数を許容範囲に丸めます。
func (s *SceneState) Normalize() {
	if s.AspectRatio == "" {
		s.AspectRatio = AspectLandscape
	}
	if s.ArtStyle == "" {
		s.ArtStyle = StylePhotorealistic
	}
	if s.Lighting == "" {
		s.Lighting = LightingNatural
	}
	if s.Camera == "" {
		s.Camera = CameraEyeLevel
	}
	if s.ImageCount < MinImageCount {
		s.ImageCount = MinImageCount
	}
	if s.ImageCount > MaxImageCount {
		s.ImageCount = MaxImageCount
	}
}

// Validate は列挙フィールドが既知のトークンであることを検証します。
func (s SceneState) Validate() error {
	if !validAspects[s.AspectRatio] {
		return fmt.Errorf("未知のアスペクト比です: %q", s.AspectRatio)
	}
	if !validStyles[s.ArtStyle] {
		return fmt.Errorf("未知の画風です: %q", s.ArtStyle)
	}
	if !validLightings[s.Lighting] {
		return fmt.Errorf("未知のライティングです: %q", s.Lighting)
	}
	if !validCameras[s.Camera] {
		return fmt.Errorf("未知のカメラパースペクティブです: %q", s.Camera)
	}
	if s.ImageCount < MinImageCount || s.ImageCount > MaxImageCount {
		return fmt.Errorf("生成枚数は%d〜%dの範囲で指定してください: %d", MinImageCount, MaxImageCount, s.ImageCount)
	}
	return nil
}

// ReferenceImages は生成APIへ渡すインラインの参照画像を統合順（キャラクター → オブジェクト → ロケーション）で返します。
func (s SceneState) ReferenceImages() []ReferenceImage {
	var refs []ReferenceImage
	for _, c := range s.Characters.WithImages() {
		if c.HasInlineImage() {
			refs = append(refs, *c.Image)
		}
	}
	for _, o := range s.Objects.WithImages() {
		if o.HasInlineImage() {
			refs = append(refs, *o.Image)
		}
	}
	if s.Location != nil && !s.Location.IsZero() {
		refs = append(refs, *s.Location)
	}
	return refs
}

// ReferenceURLs は URL 指定の参照画像を統合順（キャラクター → オブジェクト）で返します。
// 取得・キャッシュはジェネレーター側（FetchReferencePart）の責務です。
func (s SceneState) ReferenceURLs() []string {
	var urls []string
	for _, c := range s.Characters.WithImages() {
		if c.HasImageURL() {
			urls = append(urls, strings.TrimSpace(c.ImageURL))
		}
	}
	for _, o := range s.Objects.WithImages() {
		if o.HasImageURL() {
			urls = append(urls, strings.TrimSpace(o.ImageURL))
		}
	}
	return urls
}

// HasImagedEntry はキャラクターまたはオブジェクトのいずれかが参照画像を持つかどうかを返します。
func (s SceneState) HasImagedEntry() bool {
	return len(s.Characters.WithImages()) > 0 || len(s.Objects.WithImages()) > 0
}
