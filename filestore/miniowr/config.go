package miniowr

// Config selects the MinIO server and the bucket holding snapshots.
type Config struct {
	Endpoint  string `yaml:"endpoint"   validate:"required"`
	AccessKey string `yaml:"access_key" validate:"required"`
	SecretKey string `yaml:"secret_key" validate:"required" mask:"true"`
	Bucket    string `yaml:"bucket"     validate:"required"`
	UseSSL    bool   `yaml:"use_ssl"`
}
