package pipeline

import (
	"context"
	"net/http"

	"github.com/okovalenko/bloglist/internal/auth/identity"
	"github.com/okovalenko/bloglist/internal/auth/token"
	commonhttp "github.com/okovalenko/bloglist/internal/common/http"
)

// Outcome is the tagged result of one pipeline stage: either continue with
// an updated request context, or short-circuit with a response.
type Outcome struct {
	ctx     context.Context
	status  int
	code    string
	message string
	halted  bool
}

func Continue(ctx context.Context) Outcome {
	return Outcome{ctx: ctx}
}

func ShortCircuit(status int, code, message string) Outcome {
	return Outcome{status: status, code: code, message: message, halted: true}
}

func (o Outcome) Halted() bool {
	return o.halted
}

type Stage func(r *http.Request) Outcome

// Wrap composes stages into an ordered pipeline in front of a handler.
// Stages run in argument order; the first short-circuit writes its response
// and the handler never runs.
func Wrap(stages ...Stage) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			for _, stage := range stages {
				outcome := stage(r)
				if outcome.halted {
					commonhttp.WriteErrorEnvelope(w, outcome.status, outcome.code, outcome.message, nil, "")
					return
				}
				r = r.WithContext(outcome.ctx)
			}
			next(w, r)
		}
	}
}

type contextKey string

const (
	subjectKey  contextKey = "auth_subject"
	identityKey contextKey = "auth_identity"
)

// VerifyStage extracts and verifies the bearer credential. It never
// short-circuits: an absent or invalid credential is a valid state that the
// resolver collapses to no identity.
func VerifyStage(verifier *token.Verifier) Stage {
	return func(r *http.Request) Outcome {
		sub := verifier.VerifyHeader(r.Header.Get("Authorization"))
		return Continue(context.WithValue(r.Context(), subjectKey, sub))
	}
}

// ResolveStage fills the per-request identity slot exactly once. It must
// run after VerifyStage.
func ResolveStage(resolver *identity.Resolver) Stage {
	return func(r *http.Request) Outcome {
		ctx := r.Context()

		sub, _ := ctx.Value(subjectKey).(token.Subject)
		resolved := resolver.Resolve(ctx, sub)

		if _, populated := ctx.Value(identityKey).(identity.Identity); populated {
			// write-once contract broken by the composition, not by input
			panic("pipeline: identity slot populated twice")
		}

		return Continue(context.WithValue(ctx, identityKey, resolved))
	}
}

// IdentityFromContext reads the request identity slot. The second return is
// false only when the pipeline never ran for this route, which is a
// composition error for any operation that needs identity.
func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityKey).(identity.Identity)
	return id, ok
}
