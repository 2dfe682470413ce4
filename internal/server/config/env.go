package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/joho/godotenv"
)

// defaultEnvFile is read when present and no -env flag is given.
const defaultEnvFile = ".env"

// envLookup resolves a variable from the process environment first and the
// dotenv file second, so real environment always wins.
type envLookup func(key string) (string, bool)

func newEnvLookup(file map[string]string) envLookup {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}
}

// readEnvFile loads the dotenv file named by -env/-E, or ./.env. A missing
// default file is not an error; a missing explicit file or a broken one panics.
func readEnvFile() map[string]string {
	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		panic(err)
	}
	return values
}

// parseEnv overlays config with environment variables.
//
// Recognised variables:
//
//	DATABASE_DSN        PostgreSQL DSN
//	JWT_SECRET          JWT HMAC secret
//	BACKEND_PORT        REST port (binds ":<port>")
//	HTTP_ADDRESS        REST bind address, wins over BACKEND_PORT
//	GRPC_ADDRESS        gRPC bind address
//	ACCESS_TOKEN_TTL    access token lifetime, Go duration
//	REFRESH_TOKEN_TTL   refresh token lifetime, Go duration
//	BCRYPT_COST         bcrypt work factor
//	KDF_TIME, KDF_MEMORY, KDF_THREADS, KDF_CONCURRENCY
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
//
// Malformed numeric or duration values panic.
func parseEnv(config *Config) {
	applyEnv(config, newEnvLookup(readEnvFile()))
}

func applyEnv(config *Config, lookup envLookup) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}
	num := func(key string, bits int) (uint64, bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return 0, false
		}
		n, err := strconv.ParseUint(v, 10, bits)
		if err != nil {
			panic(err)
		}
		return n, true
	}

	str("DATABASE_DSN", &config.DatabaseDSN)
	str("JWT_SECRET", &config.SecretKey)
	if v, ok := lookup("BACKEND_PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	str("HTTP_ADDRESS", &config.EndpointAddrHTTP)
	str("GRPC_ADDRESS", &config.EndpointAddrGRPC)
	dur("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	dur("REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)

	if n, ok := num("BCRYPT_COST", 8); ok {
		config.BcryptCost = int(n)
	}
	if n, ok := num("KDF_TIME", 32); ok {
		config.KDFTime = uint32(n)
	}
	if n, ok := num("KDF_MEMORY", 32); ok {
		config.KDFMemory = uint32(n)
	}
	if n, ok := num("KDF_THREADS", 8); ok {
		config.KDFThreads = uint8(n)
	}
	if n, ok := num("KDF_CONCURRENCY", 16); ok {
		config.KDFConcurrency = int64(n)
	}

	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}
