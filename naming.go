package docproc

import (
	"fmt"
	"net/url"
	"strings"
)

// blobTimestampLayout is the timestamp embedded in generated blob names.
const blobTimestampLayout = "20060102_150405"

// consolidatedPDFName builds the blob name for the consolidated PDF:
// {requestId}_consolidated_{timestamp}.pdf, optionally folder-prefixed.
func consolidatedPDFName(requestID, timestamp, folder string) string {
	return joinFolder(folder, fmt.Sprintf("%s_consolidated_%s.pdf", requestID, timestamp))
}

// rasterArchiveName builds the blob name for the raster archive:
// {requestId}_document_{timestamp} with the codec container's extension.
func rasterArchiveName(requestID, timestamp, folder string, codec Codec) string {
	return joinFolder(folder, fmt.Sprintf("%s_document_%s%s", requestID, timestamp, codec.Extension()))
}

func joinFolder(folder, name string) string {
	if folder == "" {
		return name
	}
	if !strings.HasSuffix(folder, "/") {
		folder += "/"
	}
	return folder + name
}

// folderFromBlobURL extracts the folder path of the source invoice blob so
// generated documents land beside it. The container segment and the file
// name are dropped; a non-empty result carries a trailing slash. Anything
// unparseable yields the container root.
func folderFromBlobURL(blobURL string) string {
	u, err := url.Parse(blobURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	folderParts := parts[1 : len(parts)-1]
	if len(folderParts) == 0 {
		return ""
	}
	return strings.Join(folderParts, "/") + "/"
}
