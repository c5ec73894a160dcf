// Package google builds authenticated clients for the Google APIs the
// service talks to.
package google

import (
	"context"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/wealth-crm/internal/config"
)

// ClientOption returns an option backed by a long-lived refresh token.
func ClientOption(ctx context.Context, cfg config.GoogleOAuth, scopes ...string) option.ClientOption {
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		Scopes:       scopes,
	}
	ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return option.WithTokenSource(ts)
}
