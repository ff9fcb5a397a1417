package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	SUNAT   SUNATConfig
	Storage StorageConfig
	Redis   RedisConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// SUNATConfig credenciales y parámetros de la API REST de GRE (SUNAT, Perú).
type SUNATConfig struct {
	AppEnv       string // dev | test | prod
	RUC          string // RUC del emisor (remitente)
	RazonSocial  string
	ClientID     string // credenciales API (menú SOL → credenciales API)
	ClientSecret string
	SOLUser      string
	SOLPassword  string
	CertPath     string // .p12/.pfx o certificado PEM
	CertKeyPath  string // llave PEM si CertPath es solo el certificado
	CertPassword string
	SecurityURL  string // base del endpoint OAuth2
	APIURL       string // base de la API de comprobantes
	PollAttempts int
	PollDelay    time.Duration
	PollTimeout  time.Duration
	RetryCodes   []string // códigos de ticket que se reintentan además de "98"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig archivo de XML firmados y CDR en MinIO/S3. Endpoint vacío = archivo deshabilitado.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled indica si hay un endpoint configurado.
func (c StorageConfig) Enabled() bool { return c.Endpoint != "" }

// RedisConfig caché del token OAuth2 de SUNAT. Addr vacío = caché en memoria del proceso.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, SUNAT_RUC, MINIO_ENDPOINT, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "gre-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "gre"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "gre-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		SUNAT: SUNATConfig{
			AppEnv:       strings.ToLower(getString(v, "SUNAT_APP_ENV", "dev")),
			RUC:          getString(v, "SUNAT_RUC", ""),
			RazonSocial:  getString(v, "SUNAT_RAZON_SOCIAL", ""),
			ClientID:     getString(v, "SUNAT_CLIENT_ID", ""),
			ClientSecret: getString(v, "SUNAT_CLIENT_SECRET", ""),
			SOLUser:      getString(v, "SUNAT_SOL_USER", ""),
			SOLPassword:  getString(v, "SUNAT_SOL_PASS", ""),
			CertPath:     getString(v, "SUNAT_CERT_PATH", ""),
			CertKeyPath:  getString(v, "SUNAT_CERT_KEY_PATH", ""),
			CertPassword: getString(v, "SUNAT_CERT_PASSWORD", ""),
			SecurityURL:  getString(v, "SUNAT_SECURITY_URL", "https://api-seguridad.sunat.gob.pe/v1"),
			APIURL:       getString(v, "SUNAT_API_URL", "https://api-cpe.sunat.gob.pe/v1"),
			PollAttempts: getInt(v, "SUNAT_POLL_ATTEMPTS", 3),
			PollDelay:    getDuration(v, "SUNAT_POLL_DELAY", 3*time.Second),
			PollTimeout:  getDuration(v, "SUNAT_POLL_TIMEOUT", 30*time.Second),
			RetryCodes:   getList(v, "SUNAT_RETRY_CODES"),
		},
		Storage: StorageConfig{
			Endpoint:  getString(v, "MINIO_ENDPOINT", ""),
			AccessKey: getString(v, "MINIO_ACCESS_KEY", ""),
			SecretKey: getString(v, "MINIO_SECRET_KEY", ""),
			Bucket:    getString(v, "MINIO_BUCKET", "gre-documents"),
			UseSSL:    getBool(v, "MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
	}

	if err := cfg.SUNAT.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c SUNATConfig) validate() error {
	switch c.AppEnv {
	case "dev", "test", "prod":
	default:
		return fmt.Errorf("config: SUNAT_APP_ENV desconocido %q (usar dev|test|prod)", c.AppEnv)
	}
	if c.PollAttempts < 1 {
		return fmt.Errorf("config: SUNAT_POLL_ATTEMPTS debe ser >= 1")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getDuration acepta "3s", "500ms" o un entero en segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func getList(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v.GetString(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
