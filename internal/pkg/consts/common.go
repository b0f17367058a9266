package consts

// 支持的发布平台
var SupportedPlatforms = []string{"facebook", "instagram", "tiktok", "twitter", "youtube", "linkedin"}

// 支持的部署区域
var SupportedRegions = []string{
	"us-east", "us-west", "eu-west", "eu-central",
	"ap-southeast", "ap-northeast", "ap-south", "vn-north", "vn-south",
}

const (
	DefaultMaxConcurrentJobs = 3
	DefaultWorkerPriority    = 1
	DefaultJobMaxRetries     = 3
	HealthHistoryCap         = 100
	DuplicateFallbackScan    = 100
	DuplicateTopMatches      = 5
)

const (
	DefaultMinPosts = 3
	DefaultDaysBack = 90
	DefaultTopN     = 5
	DefaultMatchCap = 50
)

// IsSupportedPlatform 平台白名单校验
func IsSupportedPlatform(p string) bool {
	for _, s := range SupportedPlatforms {
		if s == p {
			return true
		}
	}
	return false
}

// IsSupportedRegion 区域白名单校验
func IsSupportedRegion(r string) bool {
	for _, s := range SupportedRegions {
		if s == r {
			return true
		}
	}
	return false
}
