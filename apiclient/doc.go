// Package apiclient is a thin client for the Help Scout Mailbox API v2.
//
// # Basic Usage
//
//	client := apiclient.New(
//	    apiclient.WithTokenProvider(authtoken.New(appID, appSecret)),
//	)
//
//	resp, err := client.Get(ctx, "conversations", apiclient.Params{
//	    "mailbox": 42,
//	    "status":  "active",
//	    "tag":     nil, // dropped
//	})
//
// GET sends [Params] as the query string; PATCH, POST and PUT send them as
// a JSON body. Nil values are removed before sending.
//
// # Authorization
//
// Every request carries the token returned by the [TokenProvider]. When Help
// Scout answers 401 the client calls InvalidateToken and resends the same
// request exactly once. No other status is retried.
//
// # Errors
//
// Non-2xx answers become an [*Error] whose Kind tells them apart:
//
//	400 KindBadRequest            Payload = body "validationErrors"
//	401 KindNotAuthorized         Payload = body "error_description"
//	404 KindNotFound              Message = "Resource Not Found"
//	429 KindThrottleLimitReached  Payload = body "error", RetryAfter from X-RateLimit-Retry-After
//	*   KindInternalError         Payload = raw body
//
// Each kind also matches its sentinel with errors.Is, e.g.
// errors.Is(err, apiclient.ErrThrottleLimitReached).
package apiclient
