// Package gatesdk is a typed HTTP client for the BananaBrain gate.
//
// Anonymous calls (puzzle rounds, sign-up, sign-in, recovery, health) hang
// off SDKClient. Signing in returns a Session that carries the bearer token
// for the MFA, password and email-code endpoints.
//
//	c := gatesdk.NewSDKClient("http://localhost:8080")
//	round, _ := c.IssueChallenge(ctx)
//	correct, err := c.VerifyGuess(ctx, 7, round.AnswerToken)
//	if gatesdk.IsInvalidToken(err) {
//		// fetch a new round
//	}
package gatesdk
