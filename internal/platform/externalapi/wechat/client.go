package wechat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"zaitan_backend/internal/feature/auth/domain/entity"
	"zaitan_backend/internal/feature/auth/usecase"
	"zaitan_backend/internal/platform/externalapi/wechat/dto"
)

// ErrNotConfigured is returned when app id or secret is missing.
var ErrNotConfigured = errors.New("wechat: app id or secret not configured")

// Client はWeChat OAuth APIで認可コードをユーザー情報に交換するWeChatClient実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがWeChatClientを実装していることをコンパイル時に検証します。
var _ usecase.WeChatClient = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, client: client}
}

// Exchange はアクセストークンを取得し、続けてユーザー情報を取得します。
func (c *Client) Exchange(ctx context.Context, code string) (*entity.WeChatProfile, error) {
	if !c.cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("appid", c.cfg.AppID)
	q.Set("secret", c.cfg.Secret)
	q.Set("code", code)
	q.Set("grant_type", "authorization_code")

	var token dto.AccessTokenResponse
	if err := c.get(ctx, "/sns/oauth2/access_token", q, &token); err != nil {
		return nil, err
	}
	if token.ErrCode != 0 {
		return nil, fmt.Errorf("wechat access_token: errcode %d: %s", token.ErrCode, token.ErrMsg)
	}

	q = url.Values{}
	q.Set("access_token", token.AccessToken)
	q.Set("openid", token.OpenID)
	q.Set("lang", "zh_CN")

	var info dto.UserInfoResponse
	if err := c.get(ctx, "/sns/userinfo", q, &info); err != nil {
		return nil, err
	}
	if info.ErrCode != 0 {
		return nil, fmt.Errorf("wechat userinfo: errcode %d: %s", info.ErrCode, info.ErrMsg)
	}

	profile := &entity.WeChatProfile{
		OpenID:     info.OpenID,
		UnionID:    info.UnionID,
		Nickname:   info.Nickname,
		HeadImgURL: info.HeadImgURL,
	}
	if profile.OpenID == "" {
		profile.OpenID = token.OpenID
	}
	if profile.UnionID == "" {
		profile.UnionID = token.UnionID
	}
	if profile.OpenID == "" {
		return nil, errors.New("wechat: response carried no openid")
	}
	return profile, nil
}

// get はGETリクエストを実行し、JSONレスポンスをoutにデコードします。
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("wechat http %d", res.StatusCode)
	}

	// WeChatはContent-Typeにtext/plainを返すことがあるため、ヘッダーに依存せずデコードする
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("wechat decode: %w", err)
	}
	return nil
}
