package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

var serverFlags = []string{
	"-a", "-w", "-d", "-s", "-t", "-r", "-k", "-u", "-p", "-b", "-g", "-e",
	"-kdf-time", "-kdf-memory", "-kdf-threads", "-kdf-concurrency",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-w string   REST bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-k int      bcrypt cost
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-kdf-time, -kdf-memory, -kdf-threads, -kdf-concurrency   Argon2id settings
//
// Only the flags above are looked at (via flagx.FilterArgs), so -c and -env
// used by the other loaders never collide. Invalid values panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "REST address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")

	kdfTime := fs.Uint("kdf-time", uint(config.KDFTime), "Argon2id passes")
	kdfMemory := fs.Uint("kdf-memory", uint(config.KDFMemory), "Argon2id memory (KiB)")
	kdfThreads := fs.Uint("kdf-threads", uint(config.KDFThreads), "Argon2id lanes")
	fs.Int64Var(&config.KDFConcurrency, "kdf-concurrency", config.KDFConcurrency, "max concurrent KEK derivations")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.KDFTime = uint32(*kdfTime)
	config.KDFMemory = uint32(*kdfMemory)
	config.KDFThreads = uint8(*kdfThreads)
}
