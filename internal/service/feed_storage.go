package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/shopspring/decimal"

	appconfig "github.com/sellermetrics/catalog_api/internal/config"
)

// FeedStorage fetches uploaded product feed files from S3.
type FeedStorage struct {
	client *s3.Client
	bucket string
}

// NewFeedStorage creates a FeedStorage from config. Static credentials are
// used when provided; otherwise the default AWS credential chain applies.
func NewFeedStorage(cfg *appconfig.S3Config) (*FeedStorage, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, errors.New("feed bucket not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &FeedStorage{client: client, bucket: cfg.Bucket}, nil
}

// Fetch returns the body of a feed object. An empty bucket falls back to the
// configured default bucket. The caller closes the returned reader.
func (f *FeedStorage) Fetch(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if bucket == "" {
		bucket = f.bucket
	}
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// feedColumns maps CSV header names to import record fields. Headers are
// matched after trimming and case-folding.
var feedColumns = map[string]bool{
	"name":        true,
	"category":    true,
	"base_cost":   true,
	"size":        true,
	"weight":      true,
	"width":       true,
	"height":      true,
	"length":      true,
	"source":      true,
	"product_sku": true,
	"parent":      true,
}

// parseFeedCSV reads a header-first CSV feed into import records. Rows whose
// numeric cells fail to parse are skipped and counted; unknown columns are
// ignored. A feed without a name column is an error.
func parseFeedCSV(r io.Reader) ([]ImportProductRecord, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("missing header row: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if feedColumns[h] {
			colIndex[h] = i
		}
	}
	if _, ok := colIndex["name"]; !ok {
		return nil, 0, errors.New("feed has no name column")
	}

	cell := func(row []string, col string) (string, bool) {
		i, ok := colIndex[col]
		if !ok || i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		return v, v != ""
	}

	var (
		records []ImportProductRecord
		skipped int
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		rec := ImportProductRecord{}
		rec.Name, _ = cell(row, "name")

		ok := true
		if v, present := cell(row, "base_cost"); present {
			d, err := decimal.NewFromString(v)
			if err != nil {
				ok = false
			} else {
				rec.BaseCost = &d
			}
		}
		for col, dst := range map[string]**float64{
			"weight": &rec.Weight,
			"width":  &rec.Width,
			"height": &rec.Height,
			"length": &rec.Length,
		} {
			v, present := cell(row, col)
			if !present {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				ok = false
				break
			}
			*dst = &f
		}
		if !ok {
			skipped++
			continue
		}

		for col, dst := range map[string]**string{
			"category":    &rec.Category,
			"size":        &rec.Size,
			"source":      &rec.Source,
			"product_sku": &rec.ProductSKU,
			"parent":      &rec.Parent,
		} {
			if v, present := cell(row, col); present {
				s := v
				*dst = &s
			}
		}

		records = append(records, rec)
	}
	return records, skipped, nil
}
