package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"courierhub/internal/common"
	"courierhub/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	labelBucket    = "shipping-labels"
	labelURLExpiry = 24 * time.Hour
)

// ObjectStorage abstracts the MinIO client for label documents.
type ObjectStorage interface {
	Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error
	GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error)
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

type minioStorage struct {
	client *minio.Client
}

func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool) (ObjectStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{client: client}, nil
}

func (m *minioStorage) Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	_, err := m.client.PutObject(ctx, bucketName, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioStorage) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, bucketName, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}

type LabelResponse struct {
	TrackingNumber string    `json:"tracking_number"`
	URL            string    `json:"url"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// LabelService renders a shipping label for a shipment and stores it in
// object storage, returning a presigned download URL.
type LabelService interface {
	GenerateLabel(ctx context.Context, tc common.TenantContext, trackingNumber string) (*LabelResponse, error)
}

type labelService struct {
	shipmentSvc ShipmentService
	storage     ObjectStorage
	now         func() time.Time
}

func NewLabelService(shipmentSvc ShipmentService, storage ObjectStorage) LabelService {
	return &labelService{
		shipmentSvc: shipmentSvc,
		storage:     storage,
		now:         time.Now,
	}
}

func (s *labelService) GenerateLabel(ctx context.Context, tc common.TenantContext, trackingNumber string) (*LabelResponse, error) {
	shipment, err := s.shipmentSvc.GetByTracking(ctx, tc, trackingNumber)
	if err != nil {
		return nil, err
	}
	if shipment.Status == models.StatusCancelled {
		return nil, common.NewBusinessRuleError("cannot generate a label for a cancelled shipment")
	}

	doc := renderLabel(shipment)
	objectName := fmt.Sprintf("%s/%s.txt", tc.TenantID.String(), shipment.TrackingNumber)

	if err := s.storage.EnsureBucketExists(ctx, labelBucket); err != nil {
		return nil, common.NewInternalError(err)
	}
	if err := s.storage.Upload(ctx, labelBucket, objectName, bytes.NewReader(doc), int64(len(doc)), "text/plain"); err != nil {
		return nil, common.NewInternalError(err)
	}

	url, err := s.storage.GetPresignedURL(ctx, labelBucket, objectName, labelURLExpiry)
	if err != nil {
		return nil, common.NewInternalError(err)
	}

	return &LabelResponse{
		TrackingNumber: shipment.TrackingNumber,
		URL:            url,
		ExpiresAt:      s.now().Add(labelURLExpiry),
	}, nil
}

func renderLabel(shipment *models.Shipment) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "COURIERHUB SHIPPING LABEL\n")
	fmt.Fprintf(&buf, "Tracking: %s\n", shipment.TrackingNumber)
	fmt.Fprintf(&buf, "Service:  %s\n", shipment.ServiceType)
	fmt.Fprintf(&buf, "From:     %s, %s, %s, %s\n", shipment.Sender.Name, shipment.Sender.Line1, shipment.Sender.City, shipment.Sender.Country)
	fmt.Fprintf(&buf, "To:       %s, %s, %s, %s\n", shipment.Receiver.Name, shipment.Receiver.Line1, shipment.Receiver.City, shipment.Receiver.Country)
	fmt.Fprintf(&buf, "Weight:   %.2f kg\n", shipment.Parcel.Weight)
	fmt.Fprintf(&buf, "ETA:      %s\n", shipment.EstimatedDelivery.Format("2006-01-02"))
	return buf.Bytes()
}
