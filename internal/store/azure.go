package store

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/rs/zerolog"
)

// AzureStore is the Azure Blob Storage implementation of ObjectStore.
// The container holds the uploaded alarm exports as-is; blob names double
// as the corpus keys.
type AzureStore struct {
	client    *azblob.Client
	container string
	logger    zerolog.Logger
}

// NewAzureStore connects using a storage-account connection string
// (retrieved from the environment by the caller; it is never persisted).
func NewAzureStore(connectionString, container string, logger zerolog.Logger) (*AzureStore, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("storage connection string not set")
	}
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return &AzureStore{
		client:    client,
		container: container,
		logger:    logger.With().Str("component", "azure_store").Logger(),
	}, nil
}

func (s *AzureStore) List(ctx context.Context) ([]ObjectInfo, error) {
	var out []ObjectInfo
	pager := s.client.NewListBlobsFlatPager(s.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing container %s: %w", s.container, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			info := ObjectInfo{Name: *item.Name}
			if item.Properties != nil {
				if item.Properties.CreationTime != nil {
					info.CreatedAt = *item.Properties.CreationTime
				}
				if item.Properties.ContentLength != nil {
					info.Size = *item.Properties.ContentLength
				}
			}
			out = append(out, info)
		}
	}
	return out, nil
}

func (s *AzureStore) Get(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", name, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (s *AzureStore) Put(ctx context.Context, name string, data []byte) error {
	if _, err := s.client.UploadBuffer(ctx, s.container, name, data, nil); err != nil {
		return fmt.Errorf("uploading %s: %w", name, err)
	}
	s.logger.Info().Str("blob", name).Int("bytes", len(data)).Msg("object stored")
	return nil
}

func (s *AzureStore) Exists(ctx context.Context) (bool, error) {
	cc := s.client.ServiceClient().NewContainerClient(s.container)
	_, err := cc.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.ContainerNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking container %s: %w", s.container, err)
	}
	return true, nil
}

func (s *AzureStore) Create(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("creating container %s: %w", s.container, err)
	}
	return nil
}
