package docproc

import (
	"net/url"
	"strings"
	"testing"
)

const testConnString = "DefaultEndpointsProtocol=https;AccountName=testacct;AccountKey=dGVzdGtleTEyMzQ1Ng==;EndpointSuffix=core.windows.net"

func TestParseConnectionString(t *testing.T) {
	name, key := parseConnectionString(testConnString)
	if name != "testacct" {
		t.Errorf("name = %q, want testacct", name)
	}
	// Base64 padding must survive the split.
	if key != "dGVzdGtleTEyMzQ1Ng==" {
		t.Errorf("key = %q", key)
	}

	name, key = parseConnectionString("garbage")
	if name != "" || key != "" {
		t.Errorf("parseConnectionString(garbage) = %q, %q, want empty", name, key)
	}
}

func TestSplitBlobPath(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		wantContainer string
		wantBlob      string
		wantErr       bool
	}{
		{
			"nested blob",
			"https://acct.blob.core.windows.net/docs/invoices/2025/inv.pdf",
			"docs", "invoices/2025/inv.pdf", false,
		},
		{
			"root blob",
			"https://acct.blob.core.windows.net/docs/inv.pdf",
			"docs", "inv.pdf", false,
		},
		{
			"container only",
			"https://acct.blob.core.windows.net/docs",
			"", "", true,
		},
		{
			"no path",
			"https://acct.blob.core.windows.net",
			"", "", true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, blobPath, err := splitBlobPath(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatal("splitBlobPath() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("splitBlobPath() error = %v", err)
			}
			if container != tt.wantContainer || blobPath != tt.wantBlob {
				t.Fatalf("splitBlobPath() = %q, %q, want %q, %q", container, blobPath, tt.wantContainer, tt.wantBlob)
			}
		})
	}
}

func TestNewBlobStore(t *testing.T) {
	if _, err := NewBlobStore("", "docs"); err == nil {
		t.Fatal("NewBlobStore(no connection string) error = nil, want error")
	}
	if _, err := NewBlobStore(testConnString, ""); err == nil {
		t.Fatal("NewBlobStore(no container) error = nil, want error")
	}

	store, err := NewBlobStore(testConnString, "docs")
	if err != nil {
		t.Fatalf("NewBlobStore() error = %v", err)
	}
	if store.accountName != "testacct" {
		t.Errorf("accountName = %q", store.accountName)
	}
	if store.sasValidity != defaultSASValidity {
		t.Errorf("sasValidity = %v", store.sasValidity)
	}
}

func TestSignReadURL(t *testing.T) {
	store, err := NewBlobStore(testConnString, "docs")
	if err != nil {
		t.Fatalf("NewBlobStore() error = %v", err)
	}

	blobURL := "https://testacct.blob.core.windows.net/docs/invoices/inv.pdf"
	signed, err := store.signReadURL(blobURL)
	if err != nil {
		t.Fatalf("signReadURL() error = %v", err)
	}
	if !strings.HasPrefix(signed, blobURL+"?") {
		t.Fatalf("signed URL = %q, want %q prefix", signed, blobURL+"?")
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parsing signed URL: %v", err)
	}
	q := u.Query()
	if q.Get("sig") == "" {
		t.Error("signed URL has no sig parameter")
	}
	if q.Get("sp") != "r" {
		t.Errorf("permissions = %q, want read-only", q.Get("sp"))
	}
}

func TestSignReadURLRequiresCredentials(t *testing.T) {
	store := &BlobStore{container: "docs"}
	if _, err := store.signReadURL("https://acct.blob.core.windows.net/docs/inv.pdf"); err == nil {
		t.Fatal("signReadURL() without credentials error = nil, want error")
	}
}
