package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/ogurasousui/shift-scheduler/internal/core/employee"
	"github.com/ogurasousui/shift-scheduler/internal/platform/config"
)

const maxBodyBytes = 1 << 20

// Client は社員ディレクトリ API の HTTP クライアントです。
type Client struct {
	baseURL      string
	defaultToken string
	http         *http.Client
}

var _ employee.Directory = (*Client)(nil)

// NewClient は Client を生成します。httpClient が nil の場合は設定のタイムアウトで生成します。
// タイムアウト未設定時は http.Client の既定値 (上限なし) のままで、呼び出し元のコンテキストのみが打ち切ります。
func NewClient(cfg config.DirectoryConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		defaultToken: cfg.Token,
		http:         httpClient,
	}
}

type employeeResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FetchByID は GET {base}/employee/{id} を呼び出して表示用情報を取得します。
// authToken が空の場合は設定済みのトークンを使います。
// 2xx 以外の応答や通信・デコード失敗はすべて ErrDirectoryUnavailable として返します。
func (c *Client) FetchByID(ctx context.Context, id int64, authToken string) (*employee.DirectoryRecord, error) {
	endpoint := c.baseURL + "/employee/" + strconv.FormatInt(id, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, unavailable(err)
	}

	req.Header.Set("Accept", "*/*")
	if token := c.token(authToken); token != "" {
		req.Header.Set("Authorization", token)
	}
	req.Header.Set(middleware.RequestIDHeader, requestID(ctx))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// コネクション再利用のため本文を読み捨てる
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, unavailable(fmt.Errorf("employee %d: unexpected status %d", id, resp.StatusCode))
	}

	var body employeeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, unavailable(fmt.Errorf("employee %d: decode body: %w", id, err))
	}
	if body.Name == "" && body.Email == "" {
		return nil, unavailable(fmt.Errorf("employee %d: response has neither name nor email", id))
	}

	return &employee.DirectoryRecord{Name: body.Name, Email: body.Email}, nil
}

func (c *Client) token(authToken string) string {
	if authToken != "" {
		return authToken
	}
	return c.defaultToken
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", employee.ErrDirectoryUnavailable, err)
}
