package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImagenesService sube las imágenes del catálogo de experiencias a un bucket
// S3 público y devuelve la URL resultante.
type ImagenesService struct {
	bucket string
	client *s3.Client
}

// NewImagenesService crea el servicio de imágenes. El bucket y la región
// vienen de la configuración del proceso, no del entorno.
func NewImagenesService(bucket, region string) (*ImagenesService, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket de imágenes no configurado")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		return nil, fmt.Errorf("error al cargar configuración de AWS: %w", err)
	}

	return &ImagenesService{
		bucket: bucket,
		client: s3.NewFromConfig(cfg),
	}, nil
}

// SubirImagen guarda el archivo bajo experiencias/ con un prefijo de
// timestamp para que nombres repetidos no se pisen.
func (s *ImagenesService) SubirImagen(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	defer file.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := buffer.ReadFrom(file); err != nil {
		return "", fmt.Errorf("error al leer el archivo: %w", err)
	}

	key := fmt.Sprintf("experiencias/%d_%s", time.Now().Unix(), fileHeader.Filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buffer.Bytes()),
		ContentType: aws.String(fileHeader.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("error al subir la imagen a S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}
