package composer

import (
	"strings"
	"testing"

	"github.com/shouni/go-scene-kit/pkg/domain"
)

func newScene() domain.SceneState {
	s := domain.SceneState{}
	s.Normalize()
	return s
}

func pngRef() *domain.ReferenceImage {
	return &domain.ReferenceImage{Base64: "aGVsbG8=", MimeType: "image/png"}
}

func TestCompose_Deterministic(t *testing.T) {
	s := newScene()
	s.Description = "a quiet harbor at dawn"
	s.Characters = domain.Roster{{ID: 1, Name: "Mina", Image: pngRef()}}

	first := Compose(s)
	second := Compose(s)
	if first != second {
		t.Errorf("同じ入力から異なる出力が生成されました:\n%s\n%s", first, second)
	}
}

func TestCompose_MinimalScene(t *testing.T) {
	got := Compose(newScene())

	// 常在句（リード・構図・ライティング）のみで構成されること
	if !strings.Contains(got, "photorealistic") {
		t.Errorf("リード句がありません: %s", got)
	}
	if !strings.Contains(got, "16:9 aspect ratio") {
		t.Errorf("構図句がありません: %s", got)
	}
	if !strings.Contains(got, "The lighting should be") {
		t.Errorf("ライティング句がありません: %s", got)
	}
	if strings.Contains(got, "The scene is:") {
		t.Errorf("空のシーン説明句が混入しています: %s", got)
	}
	if strings.Contains(got, "CRITICAL") {
		t.Errorf("画像なしで透明領域句が混入しています: %s", got)
	}
}

func TestCompose_BlankDescriptionOmitted(t *testing.T) {
	s := newScene()
	s.Description = "   \t  "
	got := Compose(s)

	if strings.Contains(got, "The scene is:") {
		t.Errorf("空白のみの説明で句が出力されました: %s", got)
	}
	// "The scene is: ." のような壊れた句がないこと
	if strings.Contains(got, ": .") {
		t.Errorf("空の説明句が描画されています: %s", got)
	}
}

func TestCompose_ClauseOrder(t *testing.T) {
	s := newScene()
	s.Description = "a rooftop garden"
	s.Characters = domain.Roster{{ID: 1, Name: "Mina", Image: pngRef()}}
	s.Location = pngRef()
	s.Style = pngRef()

	got := Compose(s)

	markers := []string{
		"Create a single cohesive image",
		"The scene is: a rooftop garden.",
		"Compose the shot",
		"The lighting should be",
		"Integrate the following characters",
		"location reference image",
		"style reference image",
		"CRITICAL",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(got, m)
		if idx < 0 {
			t.Fatalf("句 %q が見つかりません: %s", m, got)
		}
		if idx < last {
			t.Errorf("句 %q の位置が固定順に違反しています: %s", m, got)
		}
		last = idx
	}

	// 句の連結はスペース1個のみ（連続スペースなし）
	if strings.Contains(got, "  ") {
		t.Errorf("連続スペースが含まれています: %q", got)
	}
}

func TestCompose_BlankNameAsymmetry(t *testing.T) {
	// 画像あり・名前が空白のみのキャラクターは、統合句には載らないが
	// 透明領域句のトリガーにはなる（仕様上の意図的な非対称）
	s := newScene()
	s.Characters = domain.Roster{{ID: 1, Name: "   ", Image: pngRef()}}

	got := Compose(s)

	if strings.Contains(got, "Integrate the following characters") {
		t.Errorf("名前が空白のキャラクターが統合句に載っています: %s", got)
	}
	if !strings.Contains(got, "CRITICAL") {
		t.Errorf("透明領域句が出力されていません: %s", got)
	}
}

func TestCompose_CharacterOrderPreserved(t *testing.T) {
	s := newScene()
	s.Characters = domain.Roster{
		{ID: 1, Name: "Alpha", Image: pngRef()},
		{ID: 2, Name: "Beta", Image: pngRef()},
	}

	before := Compose(s)
	if !strings.Contains(before, "(Alpha), (Beta)") {
		t.Fatalf("追加順に並んでいません: %s", before)
	}

	// 並び替え後は統合句の順序だけが変わること
	s.Characters.Move(2, 0)
	after := Compose(s)
	if !strings.Contains(after, "(Beta), (Alpha)") {
		t.Errorf("並び替えが統合句に反映されていません: %s", after)
	}

	stripped := strings.NewReplacer("(Alpha), (Beta)", "X", "(Beta), (Alpha)", "X")
	if stripped.Replace(before) != stripped.Replace(after) {
		t.Errorf("統合句以外の箇所が変化しています:\n%s\n%s", before, after)
	}
}

func TestCompose_ObjectsAndCharactersSeparate(t *testing.T) {
	s := newScene()
	s.Characters = domain.Roster{{ID: 1, Name: "Mina", Image: pngRef()}}
	s.Objects = domain.Roster{{ID: 2, Name: "古い灯台", Image: pngRef()}}

	got := Compose(s)
	if !strings.Contains(got, "characters naturally into the scene: (Mina)") {
		t.Errorf("キャラクターのサブ句が不正です: %s", got)
	}
	if !strings.Contains(got, "objects naturally into the scene: (古い灯台)") {
		t.Errorf("オブジェクトのサブ句が不正です: %s", got)
	}
}

func TestCompose_LocationOnlyIntegration(t *testing.T) {
	// ロケーションだけでも統合句は出力されるが、透明領域句は出ない
	s := newScene()
	s.Location = pngRef()

	got := Compose(s)
	if !strings.Contains(got, "location reference image") {
		t.Errorf("ロケーションのサブ句がありません: %s", got)
	}
	if strings.Contains(got, "CRITICAL") {
		t.Errorf("ロケーションのみで透明領域句が出力されています: %s", got)
	}
}
