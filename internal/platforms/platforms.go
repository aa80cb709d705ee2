package platforms

import (
	"fmt"
	"net/url"
	"strings"
)

// Platform describes one supported social network: OAuth endpoints,
// the scopes requested at connect time and branding for the frontend.
type Platform struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Color       string   `json:"color"`
	Scopes      []string `json:"scopes"`
	AuthURL     string   `json:"-"`
	TokenURL    string   `json:"-"`
	UserInfoURL string   `json:"-"`
	PublishURL  string   `json:"-"`
}

var registry = map[string]Platform{
	"twitter": {
		Name:        "twitter",
		DisplayName: "Twitter",
		Color:       "#1DA1F2",
		Scopes:      []string{"tweet.read", "tweet.write", "users.read"},
		AuthURL:     "https://twitter.com/i/oauth2/authorize",
		TokenURL:    "https://api.twitter.com/2/oauth2/token",
		UserInfoURL: "https://api.twitter.com/2/users/me",
		PublishURL:  "https://api.twitter.com/2/tweets",
	},
	"facebook": {
		Name:        "facebook",
		DisplayName: "Facebook",
		Color:       "#1877F2",
		Scopes:      []string{"pages_show_list", "pages_read_engagement", "pages_manage_posts"},
		AuthURL:     "https://www.facebook.com/v12.0/dialog/oauth",
		TokenURL:    "https://graph.facebook.com/v12.0/oauth/access_token",
		UserInfoURL: "https://graph.facebook.com/v12.0/me",
		PublishURL:  "https://graph.facebook.com/v12.0/me/feed",
	},
	"instagram": {
		Name:        "instagram",
		DisplayName: "Instagram",
		Color:       "#E4405F",
		Scopes:      []string{"instagram_basic", "instagram_content_publish"},
		AuthURL:     "https://api.instagram.com/oauth/authorize",
		TokenURL:    "https://api.instagram.com/oauth/access_token",
		UserInfoURL: "https://graph.instagram.com/me",
		PublishURL:  "https://graph.instagram.com/me/media",
	},
	"linkedin": {
		Name:        "linkedin",
		DisplayName: "LinkedIn",
		Color:       "#0A66C2",
		Scopes:      []string{"r_liteprofile", "w_member_social"},
		AuthURL:     "https://www.linkedin.com/oauth/v2/authorization",
		TokenURL:    "https://www.linkedin.com/oauth/v2/accessToken",
		UserInfoURL: "https://api.linkedin.com/v2/me",
		PublishURL:  "https://api.linkedin.com/v2/ugcPosts",
	},
}

func Get(name string) (Platform, bool) {
	p, ok := registry[name]
	return p, ok
}

func Names() []string {
	return []string{"twitter", "facebook", "instagram", "linkedin"}
}

func All() []Platform {
	var list []Platform
	for _, name := range Names() {
		list = append(list, registry[name])
	}
	return list
}

// RedirectURI is the callback location registered with every platform.
func RedirectURI(origin, platform string) string {
	return fmt.Sprintf("%s/auth/callback/%s", origin, platform)
}

// AuthCodeURL builds the authorization redirect for the connect step.
// The state parameter binds the request to its callback.
func (p Platform) AuthCodeURL(clientID, origin, state string) string {
	params := url.Values{}
	params.Add("client_id", clientID)
	params.Add("redirect_uri", RedirectURI(origin, p.Name))
	params.Add("response_type", "code")
	params.Add("scope", strings.Join(p.Scopes, " "))
	params.Add("state", state)

	return fmt.Sprintf("%s?%s", p.AuthURL, params.Encode())
}
