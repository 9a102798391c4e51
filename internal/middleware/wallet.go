package middleware

import (
	"context"
	"strings"

	"github.com/questx-lab/stakeboard/pkg/errorx"
	"github.com/questx-lab/stakeboard/pkg/router"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
)

// RejectOversizedQuery refuses GET requests whose wallet parameters are
// obviously not addresses before any domain work happens.
func RejectOversizedQuery(maxLength int) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		query := xcontext.HTTPRequest(ctx).URL.Query()
		for _, key := range []string{"wallet_address", "focus_wallet"} {
			if len(strings.TrimSpace(query.Get(key))) > maxLength {
				return nil, errorx.New(errorx.BadRequest, "Parameter %s is too long", key)
			}
		}

		return ctx, nil
	}
}
