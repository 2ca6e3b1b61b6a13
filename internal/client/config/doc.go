// Package config loads runtime configuration for the FotoGen CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend API root
//	-t int      request timeout (seconds)
//	-m int      max training selection size (MB)
//	-l string   log level
//	-d string   state directory
//	-o string   output directory
//	-s string   sign-in mode
//
// # JSON schema
//
//	{
//	  "api_root": "http://localhost:5208/api",
//	  "request_timeout": "2m",
//	  "client_id": "00000000-0000-0000-0000-000000000000",
//	  "authority": "https://login.microsoftonline.com/<tenant>",
//	  "api_scope": "api://fotogen/FotoGen",
//	  "sign_in_mode": "device",
//	  "state_dir": ".fotogen",
//	  "output_dir": "generated",
//	  "max_batch_mb": 200,
//	  "log_level": "info",
//	  "mirror": {
//	    "bucket": "fotogen-archives",
//	    "region": "us-east-1",
//	    "endpoint": "http://127.0.0.1:9000",
//	    "access_key": "minioadmin",
//	    "secret_key": "minioadmin",
//	    "expires": "15m"
//	  }
//	}
//
// The archive mirror is enabled only when mirror.bucket is set.
package config
