// Package auth provides credentials for pushing documentation and
// creating releases without a personal access token.
//
// Two mechanisms are supported:
//
//   - GitHub App JWTs (signed with the app's RSA private key), exchanged
//     by the caller for short-lived installation tokens.
//   - SSH deploy keys, loaded from disk and identified by their SHA256
//     fingerprint.
//
// Example:
//
//	cfg, err := auth.LoadAppConfig("12345", "/etc/ioflow/app.pem")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	token, err := auth.AppToken(cfg)
package auth
