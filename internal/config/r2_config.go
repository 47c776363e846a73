package config

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2 Cloudflare settings for disaster recovery. The JWT secret is mirrored to
// an R2 bucket so a rebuilt deployment can come up without its .env file.
type r2Settings struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

func loadR2Settings() r2Settings {
	region := os.Getenv("R2_REGION")
	if region == "" {
		region = "auto"
	}
	return r2Settings{
		Endpoint:  os.Getenv("R2_ENDPOINT"),
		AccessKey: os.Getenv("R2_ACCESS_KEY"),
		SecretKey: os.Getenv("R2_SECRET_KEY"),
		Bucket:    os.Getenv("R2_BUCKET"),
		Region:    region,
	}
}

// fetchJWTSecretFromR2 fetches JWT secret from R2 backup for disaster recovery
func fetchJWTSecretFromR2() string {
	r2 := loadR2Settings()
	if r2.Endpoint == "" || r2.AccessKey == "" {
		log.Printf("[Config] R2 backup not configured")
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			r2.AccessKey,
			r2.SecretKey,
			"",
		)),
		awsconfig.WithRegion(r2.Region),
	)
	if err != nil {
		log.Printf("[Config] Failed to configure R2 client: %v", err)
		return ""
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(r2.Endpoint)
	})

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r2.Bucket),
		Key:    aws.String("config/jwt_secret.txt"),
	})
	if err != nil {
		log.Printf("[Config] Failed to fetch JWT secret from R2: %v", err)
		return ""
	}
	defer result.Body.Close()

	secret, err := io.ReadAll(result.Body)
	if err != nil {
		log.Printf("[Config] Failed to read JWT secret: %v", err)
		return ""
	}

	return string(secret)
}
