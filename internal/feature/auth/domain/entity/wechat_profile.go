package entity

// WeChatProfile is the identity returned by the WeChat OAuth exchange.
type WeChatProfile struct {
	OpenID     string
	UnionID    string
	Nickname   string
	HeadImgURL string
}
