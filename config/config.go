package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS     = ""             // e.g. "example.com,example2.com"
	POSTGRES_DSN    = ""             // PostgreSQL will be used if this is set
	MYSQL_DSN       = ""             // MySQL will be used if POSTGRES_DSN is not set and this is
	SQLITE_FILE     = "postboard.db" // SQLite is the fallback when no DSN is configured
	BIND_ADDRESS    = "0.0.0.0:8080"
	DEBUG_MODE      = true
	LOG_LEVEL       = "info"
	SLOW_REQUEST_MS = 2000
	SESSION_KEY     = "this is a long key"
	SESSION_MAX_AGE = 14 * 86400
	ADMIN_USERNAMES = "" // comma-separated, granted admin permission on signup

	// Feeds
	NUMBER_POSTS        = 10   // page size shared by every feed view
	INDEX_CACHE_SECONDS = 20   // the index page is only refreshed when this expires
	CACHE_MAX_ENTRIES   = 1000 // in-process cache only
	REDIS_ADDR          = ""   // shared page cache, in-process cache is used when empty
	REDIS_PASSWORD      = ""
	REDIS_DB            = 0

	// Rendering
	TEMPLATES_GLOB = "" // e.g. "templates/**/*.html", JSON output is used when empty

	// Images
	MEDIA_DIR     = "media" // disk storage root, unused when S3_BUCKET is set
	S3_BUCKET     = ""
	S3_PREFIX     = ""
	S3_REGION     = "us-east-1"
	S3_ENDPOINT   = ""
	S3_KEY        = ""
	S3_SECRET     = ""
	S3_SSE        = "" // e.g. "AES256"
	THUMB_SIZE    = 960
	MAX_IMAGE_MB  = 10
	PROCESS_EVERY = 30 // seconds between processing rounds when idle
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("POSTGRES_DSN", &POSTGRES_DSN)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("LOG_LEVEL", &LOG_LEVEL)
	readEnvInt("SLOW_REQUEST_MS", &SLOW_REQUEST_MS)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvInt("SESSION_MAX_AGE", &SESSION_MAX_AGE)
	readEnvString("ADMIN_USERNAMES", &ADMIN_USERNAMES)
	readEnvInt("NUMBER_POSTS", &NUMBER_POSTS)
	readEnvInt("INDEX_CACHE_SECONDS", &INDEX_CACHE_SECONDS)
	readEnvInt("CACHE_MAX_ENTRIES", &CACHE_MAX_ENTRIES)
	readEnvString("REDIS_ADDR", &REDIS_ADDR)
	readEnvString("REDIS_PASSWORD", &REDIS_PASSWORD)
	readEnvInt("REDIS_DB", &REDIS_DB)
	readEnvString("TEMPLATES_GLOB", &TEMPLATES_GLOB)
	readEnvString("MEDIA_DIR", &MEDIA_DIR)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_PREFIX", &S3_PREFIX)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_KEY", &S3_KEY)
	readEnvString("S3_SECRET", &S3_SECRET)
	readEnvString("S3_SSE", &S3_SSE)
	readEnvInt("THUMB_SIZE", &THUMB_SIZE)
	readEnvInt("MAX_IMAGE_MB", &MAX_IMAGE_MB)
	readEnvInt("PROCESS_EVERY", &PROCESS_EVERY)

	if NUMBER_POSTS < 1 {
		NUMBER_POSTS = 10
	}
}

// IsAdminUsername reports whether username is listed in ADMIN_USERNAMES
func IsAdminUsername(username string) bool {
	for _, name := range strings.Split(ADMIN_USERNAMES, ",") {
		if strings.TrimSpace(name) != "" && strings.TrimSpace(name) == username {
			return true
		}
	}
	return false
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
