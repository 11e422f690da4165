package domain

// GenerationRequest は単一の画像生成要求です。
// References にはインラインの参照画像を、ReferenceURLs には URL 指定の参照画像を、
// それぞれシーンの統合順でセットします。StyleImage には画風の手本をセットします。
type GenerationRequest struct {
	Prompt        string
	References    []ReferenceImage
	ReferenceURLs []string
	StyleImage    *ReferenceImage
	AspectRatio   string
	Seed          *int64 // nil でランダム、値指定で固定
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
	UsedSeed int64 // 戻り値は情報欠落を防ぐため int64
}
