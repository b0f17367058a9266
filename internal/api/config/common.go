package config

// Config 配置主体
type Config struct {
	Server               ServerConfig         `mapstructure:"server"`
	DB                   DBConfig             `mapstructure:"database"`
	Redis                RedisConfig          `mapstructure:"redis"`
	Logstash             LogstashConfig       `mapstructure:"logstash"`
	Kafka                KafkaConfig          `mapstructure:"kafka"`
	KafkaContentConsumer KafkaContentConsumer `mapstructure:"kafka_content_consumer"`
	KafkaJobConsumer     KafkaJobConsumer     `mapstructure:"kafka_job_consumer"`
	Worker               WorkerConfig         `mapstructure:"worker"`
	Analytics            AnalyticsConfig      `mapstructure:"analytics"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogstashConfig 远程日志
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaContentConsumer Canal 推送的 content_items 变更
type KafkaContentConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// KafkaJobConsumer Worker 回报的任务事件
type KafkaJobConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// WorkerConfig Worker 调度相关配置
type WorkerConfig struct {
	JWTSecret      string `mapstructure:"jwt_secret"`
	TokenTTL       int    `mapstructure:"token_ttl"`       // 小时
	OfflineTimeout int    `mapstructure:"offline_timeout"` // 秒
	ProbeTimeout   int    `mapstructure:"probe_timeout"`   // 秒
	ProbeSpec      string `mapstructure:"probe_spec"`
	SweepSpec      string `mapstructure:"sweep_spec"`
}

// AnalyticsConfig 发布时间分析配置
type AnalyticsConfig struct {
	DefaultTimezone string `mapstructure:"default_timezone"`
	CacheTTL        int    `mapstructure:"cache_ttl"` // 秒
	BackfillSpec    string `mapstructure:"backfill_spec"`
	BackfillBatch   int    `mapstructure:"backfill_batch"`
}
