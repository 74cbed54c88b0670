package serverconfig

type Config struct {
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	HTTPServer  HTTPServerConfig  `yaml:"httpserver" mapstructure:"httpserver"`
	WorldServer WorldServerConfig `yaml:"worldserver" mapstructure:"worldserver"`
	MongoDB     MongoDBConfig     `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL       MySQLConfig       `yaml:"mysql" mapstructure:"mysql"`
	Persistence string            `yaml:"persistence" mapstructure:"persistence"` // memory/mongodb/mysql
	Generation  GenerationConfig  `yaml:"generation" mapstructure:"generation"`
	JWTSecret   string            `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type WorldServerConfig struct {
	AskTimeoutS int `yaml:"ask_timeout_s" mapstructure:"ask_timeout_s"`
	FlushEveryS int `yaml:"flush_every_s" mapstructure:"flush_every_s"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

// GenerationConfig 世界生成参数，0 值由 Normalize 回填默认值。
type GenerationConfig struct {
	MinSide       int     `yaml:"min_side" mapstructure:"min_side"`
	MaxSide       int     `yaml:"max_side" mapstructure:"max_side"`
	MaxRestarts   int     `yaml:"max_restarts" mapstructure:"max_restarts"`
	Boost         float64 `yaml:"boost" mapstructure:"boost"`
	ProgressEvery int     `yaml:"progress_every" mapstructure:"progress_every"`
	Theme         string  `yaml:"theme" mapstructure:"theme"` // 为空使用内置 fantasy 主题
}

const (
	DefaultMinSide       = 8
	DefaultMaxSide       = 12
	DefaultMaxRestarts   = 100
	DefaultBoost         = 1.7
	DefaultProgressEvery = 5
)

func (g GenerationConfig) Normalize() GenerationConfig {
	if g.MinSide <= 0 {
		g.MinSide = DefaultMinSide
	}
	if g.MaxSide < g.MinSide {
		g.MaxSide = max(DefaultMaxSide, g.MinSide)
	}
	if g.MaxRestarts <= 0 {
		g.MaxRestarts = DefaultMaxRestarts
	}
	if g.Boost <= 1 {
		g.Boost = DefaultBoost
	}
	if g.ProgressEvery <= 0 {
		g.ProgressEvery = DefaultProgressEvery
	}
	return g
}

// ClampSide 把请求的边长夹到 [MinSide, MaxSide]。
func (g GenerationConfig) ClampSide(n int) int {
	return min(max(n, g.MinSide), g.MaxSide)
}
