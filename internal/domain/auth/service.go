package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"recipebox/internal/config"
	"recipebox/internal/pkg/jwt"
)

type Users interface {
	Upsert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
}

// Service runs the authorization-code flow against the configured provider
// and turns a verified identity into a session token.
type Service struct {
	users       Users
	jwt         *jwt.Service
	oauth       *oauth2.Config
	userInfoURL string
}

func NewService(users Users, jwtService *jwt.Service, cfg config.OAuthConfig) *Service {
	s := &Service{users: users, jwt: jwtService, userInfoURL: cfg.UserInfoURL}
	if cfg.Enabled() {
		s.oauth = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
		}
	}
	return s
}

func (s *Service) Enabled() bool { return s.oauth != nil }

func (s *Service) AuthCodeURL(state string) (string, error) {
	if s.oauth == nil {
		return "", ErrOAuthDisabled
	}
	return s.oauth.AuthCodeURL(state), nil
}

type userInfo struct {
	Subject string `json:"sub"`
	ID      any    `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

func (u userInfo) subject() string {
	if s := strings.TrimSpace(u.Subject); s != "" {
		return s
	}
	if u.ID != nil {
		return strings.TrimSpace(fmt.Sprint(u.ID))
	}
	return ""
}

// Exchange trades an authorization code for a session. It returns the stored
// user and a signed session token.
func (s *Service) Exchange(ctx context.Context, code string) (*User, string, error) {
	if s.oauth == nil {
		return nil, "", ErrOAuthDisabled
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, "", ErrMissingCode
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("exchange code: %w", err)
	}

	info, err := s.fetchUserInfo(ctx, tok)
	if err != nil {
		return nil, "", err
	}
	sub := info.subject()
	if sub == "" {
		return nil, "", ErrMissingSubject
	}

	user := &User{Subject: sub, Email: strings.TrimSpace(info.Email), Name: strings.TrimSpace(info.Name)}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, "", fmt.Errorf("store user: %w", err)
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("sign session: %w", err)
	}
	log.Printf("auth_login user_id=%s", user.ID)
	return user, token, nil
}

func (s *Service) fetchUserInfo(ctx context.Context, tok *oauth2.Token) (*userInfo, error) {
	if s.userInfoURL == "" {
		return nil, fmt.Errorf("%w: OAUTH_USERINFO_URL is not set", ErrUserInfo)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrUserInfo, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	return &info, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	return s.users.GetByID(ctx, userID)
}
