package dto

// DuplicateCheckDTO 重复内容检测请求
type DuplicateCheckDTO struct {
	Text      string  `json:"text" binding:"required,max=100000"`
	ExcludeID *uint64 `json:"excludeId"`
}

// DuplicateMatchDTO 单条相似内容
type DuplicateMatchDTO struct {
	ContentID  uint64  `json:"contentId"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
	ExactMatch bool    `json:"exactMatch"`
}

// DuplicateCheckResultDTO 重复内容检测结果
type DuplicateCheckResultDTO struct {
	IsDuplicate       bool                 `json:"isDuplicate"`
	ExactMatch        bool                 `json:"exactMatch"`
	Matches           []*DuplicateMatchDTO `json:"matches"`
	HighestSimilarity float64              `json:"highestSimilarity"`
}

// UpdateFingerprintDTO 内容文本变更后重算指纹
type UpdateFingerprintDTO struct {
	Text string `json:"text" binding:"required,max=100000"`
}

type FingerprintDTO struct {
	ContentID   uint64 `json:"contentId"`
	Fingerprint string `json:"fingerprint"`
}

// SimilarityDTO 两段文本相似度
type SimilarityDTO struct {
	Text1 string `json:"text1" binding:"required,max=100000"`
	Text2 string `json:"text2" binding:"required,max=100000"`
}

type SimilarityResultDTO struct {
	Similarity float64 `json:"similarity"`
	Percentage string  `json:"percentage"`
}
