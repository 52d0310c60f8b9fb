// Package config builds the client's Config from four layers, each
// overriding the one before:
//
//  1. defaults from (*Config).LoadDefaults;
//  2. a JSON file passed with -c or -config;
//  3. BURGER_* environment variables;
//  4. the -a, -d, -t and -v flags.
//
// A file looks like this; durations are either strings or nanoseconds:
//
//	{
//	  "api_base_url": "https://norma.nomoreparties.space/api",
//	  "database_path": "stellarburgers.db",
//	  "request_timeout": "10s",
//	  "refresh_skew": "30s",
//	  "log_format": "json",
//	  "log_level": "info"
//	}
//
// The environment names are BURGER_API_URL, BURGER_DATABASE_PATH,
// BURGER_REQUEST_TIMEOUT, BURGER_REFRESH_SKEW, BURGER_LOG_FORMAT and
// BURGER_LOG_LEVEL. A malformed source makes LoadConfig panic.
package config
