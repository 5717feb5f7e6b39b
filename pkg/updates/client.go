package updates

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// VersionClient is an interface for calling the update service API.
type VersionClient interface {
	// GetComponent names the binary this client reports for. Check times
	// are tracked per component so the CLI and the catalog server do not
	// reset each other's intervals.
	GetComponent() string
	// GetLatestVersion returns the latest released version.
	GetLatestVersion(instanceID string, currentVersion string) (string, error)
}

// NewVersionClient creates a version client for the mcpdock CLI.
func NewVersionClient() VersionClient {
	return NewVersionClientForComponent("mcpdock")
}

// NewVersionClientForComponent creates a version client for the named binary.
func NewVersionClientForComponent(component string) VersionClient {
	return &defaultVersionClient{
		versionEndpoint: defaultVersionAPI,
		component:       component,
	}
}

type defaultVersionClient struct {
	versionEndpoint string
	component       string
}

const (
	instanceIDHeader  = "X-Instance-ID"
	userAgentHeader   = "User-Agent"
	defaultVersionAPI = "https://updates.drydocklabs.dev/api/v1/version"
	requestTimeout    = 3 * time.Second
)

func (d *defaultVersionClient) GetComponent() string {
	return d.component
}

// GetLatestVersion sends a GET request to the update API endpoint and returns the version from the response.
// It returns an error if the request fails or if the response status code is not 200.
func (d *defaultVersionClient) GetLatestVersion(instanceID string, currentVersion string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, d.versionEndpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	userAgent := fmt.Sprintf("%s/%s", d.component, currentVersion)
	if os.Getenv("MCPDOCK_DEV") != "" {
		userAgent += " dev"
	}
	req.Header.Set(instanceIDHeader, instanceID)
	req.Header.Set(userAgentHeader, userAgent)

	// A hung update check must not delay the command the user actually ran.
	client := &http.Client{
		Timeout: requestTimeout,
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to update API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("update API returned non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var response struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return response.Version, nil
}
