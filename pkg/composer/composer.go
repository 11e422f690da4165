// Package composer は SceneState のスナップショットから生成プロンプト文字列を組み立てます。
// Compose は純粋関数であり、同じ入力に対して常に同じ文字列を返します。
package composer

import (
	"fmt"
	"strings"

	"github.com/shouni/go-scene-kit/pkg/domain"
)

// 固定文の定義です。句の有無は条件で決まりますが、文面自体は常に一定です。
const (
	locationClause = "Use the provided location reference image as the background and setting of the scene."
	styleRefClause = "Apply the artistic style, color palette and mood of the provided style reference image."

	// 透明領域の扱いはモデルが誤りやすいため、CRITICAL 指示として常に同じ文面を使います。
	// 名前のない参照でもこの句のトリガーになります（統合句の判定とは意図的に非対称）。
	transparencyClause = "CRITICAL: Some reference images may contain transparent areas. " +
		"Treat transparency as empty space to be filled with newly generated surroundings, " +
		"never as a checkerboard pattern or a solid color."
)

// stylePhrases は画風トークンをプロンプト上の自然言語表現に対応付けます。
var stylePhrases = map[string]string{
	domain.StylePhotorealistic: "a photorealistic",
	domain.StyleAnime:          "a Japanese anime",
	domain.StyleWatercolor:     "a watercolor painting",
	domain.StyleOilPainting:    "an oil painting",
	domain.Style3DRender:       "a polished 3D render",
	domain.StyleComicBook:      "a western comic book",
}

var lightingPhrases = map[string]string{
	domain.LightingNatural:    "natural daylight",
	domain.LightingGoldenHour: "warm golden hour light",
	domain.LightingStudio:     "even studio lighting",
	domain.LightingNeon:       "vivid neon lighting",
	domain.LightingDramatic:   "dramatic lighting with deep shadows",
	domain.LightingSoft:       "soft diffused lighting",
}

var cameraPhrases = map[string]string{
	domain.CameraEyeLevel:  "from an eye-level perspective",
	domain.CameraLowAngle:  "from a low angle looking up",
	domain.CameraHighAngle: "from a high angle looking down",
	domain.CameraCloseUp:   "as a close-up shot",
	domain.CameraWideShot:  "as a wide establishing shot",
	domain.CameraDroneView: "from a drone's aerial viewpoint",
}

// Compose はシーン状態から単一のプロンプト文字列を決定論的に組み立てます。
// 句は固定順で並び、内容のない句は完全に省かれ、残った句は半角スペース1個で連結されます。
func Compose(scene domain.SceneState) string {
	var clauses []string

	// 1. 画風を指定するリード句（常に存在）
	clauses = append(clauses, fmt.Sprintf("Create a single cohesive image in %s style.", stylePhrase(scene.ArtStyle)))

	// 2. シーン説明句（空白のみの場合は句ごと省略）
	if desc := strings.TrimSpace(scene.Description); desc != "" {
		clauses = append(clauses, fmt.Sprintf("The scene is: %s.", desc))
	}

	// 3. 構図句：カメラパースペクティブとアスペクト比（常に存在）
	clauses = append(clauses, fmt.Sprintf("Compose the shot %s with a %s aspect ratio.", cameraPhrase(scene.Camera), scene.AspectRatio))

	// 4. ライティング句（常に存在）
	clauses = append(clauses, fmt.Sprintf("The lighting should be %s.", lightingPhrase(scene.Lighting)))

	// 5. 統合句：3つのサブ句をスペースで連結。すべて空なら句ごと省略
	if integration := integrationClause(scene); integration != "" {
		clauses = append(clauses, integration)
	}

	// 6. 画風参照句
	if scene.Style != nil && !scene.Style.IsZero() {
		clauses = append(clauses, styleRefClause)
	}

	// 7. 透明領域の指示句：名前の有無に関わらず、画像付きエントリが1件でもあれば付与
	if scene.HasImagedEntry() {
		clauses = append(clauses, transparencyClause)
	}

	return strings.Join(clauses, " ")
}

// integrationClause はキャラクター・オブジェクト・ロケーションのサブ句を組み立てます。
func integrationClause(scene domain.SceneState) string {
	var parts []string

	if names := namedList(scene.Characters); names != "" {
		parts = append(parts, fmt.Sprintf("Integrate the following characters naturally into the scene: %s.", names))
	}
	if names := namedList(scene.Objects); names != "" {
		parts = append(parts, fmt.Sprintf("Integrate the following objects naturally into the scene: %s.", names))
	}
	if scene.Location != nil && !scene.Location.IsZero() {
		parts = append(parts, locationClause)
	}

	return strings.Join(parts, " ")
}

// namedList は「画像あり かつ 名前が空白のみではない」エントリの名前を、
// 並び順を保ったまま括弧で包んでカンマ区切りにします。該当なしなら空文字列です。
func namedList(roster domain.Roster) string {
	var names []string
	for _, c := range roster {
		if c.HasImage() && c.HasDisplayName() {
			names = append(names, "("+strings.TrimSpace(c.Name)+")")
		}
	}
	return strings.Join(names, ", ")
}

func stylePhrase(token string) string {
	if p, ok := stylePhrases[token]; ok {
		return p
	}
	return "a " + token
}

func lightingPhrase(token string) string {
	if p, ok := lightingPhrases[token]; ok {
		return p
	}
	return token
}

func cameraPhrase(token string) string {
	if p, ok := cameraPhrases[token]; ok {
		return p
	}
	return "from a " + token + " perspective"
}
