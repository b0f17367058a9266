package dto

// FanpageMatchDTO 频道匹配请求；contentTagIds 允许为空数组，limit 显式为 0 表示不限制
type FanpageMatchDTO struct {
	ContentTagIDs []string `json:"contentTagIds" binding:"required,max=200,dive,required"`
	Platform      string   `json:"platform" binding:"omitempty,oneof=facebook instagram tiktok twitter youtube linkedin"`
	MinScore      *int     `json:"minScore"`
	Limit         *int     `json:"limit" binding:"omitempty,min=0,max=1000"`
}

// FanpageMatchResultDTO 单个频道的匹配结果
type FanpageMatchResultDTO struct {
	ChannelID   uint64   `json:"channelId"`
	ChannelName string   `json:"channelName"`
	Platform    string   `json:"platform"`
	Score       int      `json:"score"`
	MatchedTags []string `json:"matchedTags"`
	MatchReason string   `json:"matchReason"`
}

type MatchingSummaryDTO struct {
	ContentTagIDs []string `json:"contentTagIds" binding:"required,max=200,dive,required"`
}

// MatchingSummaryResultDTO 匹配汇总，用于看板
type MatchingSummaryResultDTO struct {
	TotalChannels int64          `json:"totalChannels"`
	TotalMatches  int            `json:"totalMatches"`
	ByReason      map[string]int `json:"byReason"`
	ByPlatform    map[string]int `json:"byPlatform"`
}
