package docproc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
)

// defaultSASValidity bounds how long generated read links stay usable.
const defaultSASValidity = 48 * time.Hour

// ArtifactStore is the durable storage collaborator. Fetch reads source
// bytes from a remote locator; Upload persists a named byte stream and
// returns its durable URL.
type ArtifactStore interface {
	Fetch(ctx context.Context, blobURL string) ([]byte, error)
	Upload(ctx context.Context, blobName, contentType string, data []byte) (string, error)
}

// BlobStore implements ArtifactStore on Azure Blob Storage.
type BlobStore struct {
	client      *azblob.Client
	container   string
	accountName string
	accountKey  string
	sasValidity time.Duration
	httpClient  *http.Client
}

// NewBlobStore creates a store from an Azure storage connection string.
func NewBlobStore(connectionString, container string) (*BlobStore, error) {
	if connectionString == "" {
		return nil, errors.New("storage connection string must be set")
	}
	if container == "" {
		return nil, errors.New("blob container name must be set")
	}
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing blob client: %w", err)
	}
	name, key := parseConnectionString(connectionString)
	return &BlobStore{
		client:      client,
		container:   container,
		accountName: name,
		accountKey:  key,
		sasValidity: defaultSASValidity,
		httpClient:  &http.Client{Timeout: 2 * time.Minute},
	}, nil
}

// parseConnectionString pulls the account name and key out of a
// "Key=Value;Key=Value" Azure connection string.
func parseConnectionString(cs string) (name, key string) {
	for _, part := range strings.Split(cs, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch k {
		case "AccountName":
			name = v
		case "AccountKey":
			// Base64 keys contain '='; Cut only splits on the first one.
			key = v
		}
	}
	return name, key
}

// Upload persists the byte stream under blobName with the given content
// type and returns the blob's durable URL.
func (b *BlobStore) Upload(ctx context.Context, blobName, contentType string, data []byte) (string, error) {
	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}
	if _, err := b.client.UploadBuffer(ctx, b.container, blobName, data, opts); err != nil {
		return "", fmt.Errorf("uploading %s: %w", blobName, err)
	}
	return fmt.Sprintf("%s%s/%s", b.serviceURL(), b.container, blobName), nil
}

func (b *BlobStore) serviceURL() string {
	u := b.client.URL()
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// Fetch downloads an existing blob by URL, signing a short-lived read SAS
// so access works on private containers.
func (b *BlobStore) Fetch(ctx context.Context, blobURL string) ([]byte, error) {
	sasURL, err := b.signReadURL(blobURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sasURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading blob: HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading blob body: %w", err)
	}
	return data, nil
}

// signReadURL appends a read-only SAS token to an existing blob URL.
func (b *BlobStore) signReadURL(blobURL string) (string, error) {
	if b.accountName == "" || b.accountKey == "" {
		return "", errors.New("connection string has no account credentials for SAS signing")
	}
	container, blobPath, err := splitBlobPath(blobURL)
	if err != nil {
		return "", err
	}

	cred, err := azblob.NewSharedKeyCredential(b.accountName, b.accountKey)
	if err != nil {
		return "", fmt.Errorf("building SAS credential: %w", err)
	}

	now := time.Now().UTC()
	values := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     now.Add(-10 * time.Minute),
		ExpiryTime:    now.Add(b.sasValidity),
		Permissions:   (&sas.BlobPermissions{Read: true}).String(),
		ContainerName: container,
		BlobName:      blobPath,
	}
	query, err := values.SignWithSharedKey(cred)
	if err != nil {
		return "", fmt.Errorf("signing SAS: %w", err)
	}
	return blobURL + "?" + query.Encode(), nil
}

// splitBlobPath breaks a blob URL into its container and blob path.
func splitBlobPath(blobURL string) (container, blobPath string, err error) {
	u, err := url.Parse(blobURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing blob URL: %w", err)
	}
	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("blob URL %q has no container/blob path", u.Host+u.Path)
	}
	return parts[0], parts[1], nil
}
