/*
Package apisdk provides a client SDK for the learning platform API.

# Overview

The package is organized around three types:

  - TokenStore: holds the current access token in memory, optionally mirrored
    to a durable store so a restarted process resumes its session
  - Client: a thin request dispatcher that attaches the bearer token and holds
    the refresh cookie in its transport cookie jar
  - Session: the reauth coordinator; it detects 401 responses, renews the
    access token through the refresh cookie, and replays the failed request
    exactly once

Typical usage:

	store := apisdk.NewTokenStore(apisdk.NopMirror{})
	client, err := apisdk.NewClient("https://api.example.com", store)
	session := apisdk.NewSession(client)

	user, err := session.Login(ctx, "alice@example.com", "secret123")

	// Session methods renew transparently on expiry.
	me, err := session.Me(ctx)

	var courses []apisdk.Course
	err = session.Get(ctx, "/courses", &courses)

# Automatic renewal

When a request comes back 401, the Session renews via POST /auth/refresh-token
(the refresh token lives in an http-only cookie carried by the transport jar;
application code never sees it) and replays the original request once with the
new token. Concurrent failures coalesce behind a single in-flight renewal.

Any renewal failure (rejection, transport error, or the RenewTimeout elapsing)
fails closed: the token store is cleared, the session becomes Expired, the
OnLogout hook fires, and each caller receives the original 401. No further
renewal is attempted until the next Login.

# Thread safety

Sessions are safe for concurrent use; a single Session can be shared by any
number of goroutines.
*/
package apisdk
