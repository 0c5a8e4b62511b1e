package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Provider fala com o provedor de identidade (Google) no fluxo
// authorization-code. As URLs são configuráveis pra apontar em testes
// pra um servidor local.
type Provider struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string
	HTTP         *http.Client
}

func NewProvider(clientID, clientSecret, authURL, tokenURL, userInfoURL, redirectURL string) *Provider {
	return &Provider{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthURL:      authURL,
		TokenURL:     tokenURL,
		UserInfoURL:  userInfoURL,
		RedirectURL:  redirectURL,
		HTTP:         &http.Client{Timeout: 5 * time.Second},
	}
}

// AuthCodeURL monta a URL de autorização com o state anti-CSRF
func (p *Provider) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", p.ClientID)
	q.Set("redirect_uri", p.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", state)
	return p.AuthURL + "?" + q.Encode()
}

// Exchange troca o code por um access token e busca email e nome do usuário
func (p *Provider) Exchange(ctx context.Context, code string) (Identity, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", p.ClientID)
	form.Set("client_secret", p.ClientSecret)
	form.Set("redirect_uri", p.RedirectURL)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := p.HTTP.Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return Identity{}, fmt.Errorf("oauth token http %d", res.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&tok); err != nil {
		return Identity{}, err
	}
	if tok.AccessToken == "" {
		return Identity{}, fmt.Errorf("oauth token response without access_token")
	}

	return p.userInfo(ctx, tok.AccessToken)
}

func (p *Provider) userInfo(ctx context.Context, accessToken string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := p.HTTP.Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return Identity{}, fmt.Errorf("oauth userinfo http %d", res.StatusCode)
	}

	var ui struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(res.Body).Decode(&ui); err != nil {
		return Identity{}, err
	}
	if ui.Email == "" {
		return Identity{}, fmt.Errorf("oauth userinfo without email")
	}
	return Identity{Email: ui.Email, Name: ui.Name}, nil
}
