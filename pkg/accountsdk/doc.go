/*
Package accountsdk is a client for the bizdesk account API and holds the wire
types shared by the server handlers.

# Overview

The account API is a single-user shell: one current user per server process.
A Client calls it over HTTP:

	client := accountsdk.NewClient("http://localhost:8080")

	res, err := client.Signup(ctx, accountsdk.SignupRequest{
		Email:        "a@x.com",
		Password:     "pw123456",
		Name:         "Alice",
		BusinessName: "Alice Co",
	})

	res, err = client.Login(ctx, "a@x.com", "pw123456")
	user, err := client.GetAccount(ctx)

# Results and errors

Signup, Login, Logout and UpdateAccount return an AuthResult for both
outcomes; a failed operation is a result with Success false, not an error.
Errors are reserved for transport failures and rejected requests (malformed
body, rate limit, not signed in), which are returned as *APIError:

	user, err := client.GetAccount(ctx)
	if accountsdk.IsUnauthenticated(err) {
		// render the sign-in form
	}

# Events

Events streams the current user: it calls fn with the value at connect time
and again after every change, with nil meaning signed out. It returns when ctx
is cancelled or the server closes the stream.

	err := client.Events(ctx, func(u *accountsdk.User) {
		render(u)
	})
*/
package accountsdk
