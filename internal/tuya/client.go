package tuya

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jpalmer/tuyalogger/pkg/models"
)

// EnergyMetricCode is the datapoint code holding the cumulative energy counter
const EnergyMetricCode = "forward_energy_total"

// energyScaleDivisor converts the raw counter (hundredths of a kWh) to kWh.
// Device-specific; the meter always reports in this scale.
const energyScaleDivisor = 100

// APIError represents a non-success response from the Tuya OpenAPI
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tuya api error %d: %s", e.Code, e.Message)
}

// MissingMetricError indicates the device response did not include an
// expected datapoint code
type MissingMetricError struct {
	Code string
}

func (e *MissingMetricError) Error() string {
	return fmt.Sprintf("%s not found in device data", e.Code)
}

// Client is a Tuya OpenAPI client for a single device
type Client struct {
	endpoint  string
	accessID  string
	accessKey string
	deviceID  string

	httpClient *http.Client

	token       string
	tokenExpiry time.Time

	now func() time.Time
}

// NewClient creates a client for the given endpoint and credentials
func NewClient(endpoint, accessID, accessKey, deviceID string) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		accessID:   accessID,
		accessKey:  accessKey,
		deviceID:   deviceID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

// envelope is the common Tuya OpenAPI response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Msg     string          `json:"msg"`
	Result  json.RawMessage `json:"result"`
}

type tokenResult struct {
	AccessToken string `json:"access_token"`
	ExpireTime  int    `json:"expire_time"` // seconds
}

// StatusItem is one datapoint from the device status list
type StatusItem struct {
	Code  string `json:"code"`
	Value any    `json:"value"`
}

// FetchReading polls the device and returns a reading built from the
// forward energy counter. The reading instant is the wall-clock UTC time
// at which the status was fetched.
func (c *Client) FetchReading(ctx context.Context) (models.Reading, error) {
	points, err := c.DeviceStatus(ctx)
	if err != nil {
		return models.Reading{}, err
	}

	raw, ok := points[EnergyMetricCode]
	if !ok {
		return models.Reading{}, &MissingMetricError{Code: EnergyMetricCode}
	}

	value, err := toFloat(raw)
	if err != nil {
		return models.Reading{}, fmt.Errorf("parsing %s: %w", EnergyMetricCode, err)
	}

	reading := models.NewReading(c.now(), value/energyScaleDivisor, points)
	reading.DeviceID = c.deviceID
	return reading, nil
}

// DeviceStatus fetches the current status of the device and returns a
// mapping from datapoint code to value
func (c *Client) DeviceStatus(ctx context.Context) (map[string]any, error) {
	path := fmt.Sprintf("/v1.0/devices/%s/status", c.deviceID)

	var items []StatusItem
	if err := c.get(ctx, path, &items); err != nil {
		return nil, err
	}

	points := make(map[string]any, len(items))
	for _, item := range items {
		points[item.Code] = item.Value
	}
	return points, nil
}

// get performs a signed GET request and decodes the result field into out
func (c *Client) get(ctx context.Context, path string, out any) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	env, err := c.do(ctx, path, token)
	if err != nil {
		return err
	}

	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("decoding result: %w", err)
		}
	}
	return nil
}

// getToken returns a valid access token, requesting a new one if the cached
// token is absent or within a minute of expiring
func (c *Client) getToken(ctx context.Context) (string, error) {
	if c.token != "" && c.now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.token, nil
	}

	env, err := c.do(ctx, "/v1.0/token?grant_type=1", "")
	if err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}

	var result tokenResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return "", fmt.Errorf("decoding token: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access_token")
	}

	c.token = result.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(result.ExpireTime) * time.Second)
	return c.token, nil
}

// do issues one signed GET against the API and checks the response envelope.
// An empty token signs in token-request mode.
func (c *Client) do(ctx context.Context, path, token string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	t := strconv.FormatInt(c.now().UnixMilli(), 10)
	req.Header.Set("client_id", c.accessID)
	req.Header.Set("sign", c.sign(http.MethodGet, path, token, t))
	req.Header.Set("t", t)
	req.Header.Set("sign_method", "HMAC-SHA256")
	if token != "" {
		req.Header.Set("access_token", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Code: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if !env.Success {
		return nil, &APIError{Code: env.Code, Message: env.Msg}
	}

	return &env, nil
}

// sign computes the Tuya OpenAPI v2 request signature:
// UPPER(HEX(HMAC-SHA256(client_id [+ access_token] + t + stringToSign, secret)))
// where stringToSign = method\n + SHA256(body)\n + headers\n + path.
func (c *Client) sign(method, path, token, t string) string {
	bodyHash := sha256.Sum256(nil) // GET requests carry no body

	stringToSign := method + "\n" + hex.EncodeToString(bodyHash[:]) + "\n" + "\n" + path

	mac := hmac.New(sha256.New, []byte(c.accessKey))
	mac.Write([]byte(c.accessID + token + t + stringToSign))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// toFloat converts a datapoint value to float64. Tuya integer datapoints
// arrive as JSON numbers but other client paths may hand us ints.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("unexpected value type %T", v)
	}
}
