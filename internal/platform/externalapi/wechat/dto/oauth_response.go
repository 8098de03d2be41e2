// Package dto defines the WeChat API response payloads.
package dto

// APIError is embedded in every WeChat response. ErrCode is non-zero on failure.
type APIError struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// AccessTokenResponse is returned by sns/oauth2/access_token.
type AccessTokenResponse struct {
	APIError
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	OpenID       string `json:"openid"`
	Scope        string `json:"scope"`
	UnionID      string `json:"unionid"`
}

// UserInfoResponse is returned by sns/userinfo.
type UserInfoResponse struct {
	APIError
	OpenID     string `json:"openid"`
	Nickname   string `json:"nickname"`
	HeadImgURL string `json:"headimgurl"`
	UnionID    string `json:"unionid"`
}
