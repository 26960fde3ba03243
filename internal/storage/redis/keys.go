package redis

import "fmt"

// Key generation functions for each collection

// keys builds namespaced keys from a prefix
type keys struct {
	prefix string
}

// user returns the HASH key holding a user's scalar fields
func (k keys) user(username string) string {
	return fmt.Sprintf("%s:user:%s", k.prefix, username)
}

// followers returns the SET key of usernames following username
func (k keys) followers(username string) string {
	return fmt.Sprintf("%s:followers:%s", k.prefix, username)
}

// following returns the SET key of usernames that username follows
func (k keys) following(username string) string {
	return fmt.Sprintf("%s:following:%s", k.prefix, username)
}

// warnings returns the LIST key of warnings issued against target
func (k keys) warnings(target string) string {
	return fmt.Sprintf("%s:warnings:%s", k.prefix, target)
}

// messages returns the LIST key of the message log
func (k keys) messages() string {
	return fmt.Sprintf("%s:messages", k.prefix)
}
