// Package redis establishes the Redis connection used for login throttling.
package redis
