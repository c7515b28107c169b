package wayfinder

// Version is the release version. Builds override it with
// -ldflags "-X github.com/aretw0/wayfinder.Version=v1.2.3".
var Version = "0.1.0-dev"
