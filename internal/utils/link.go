package utils

import "crypto/rand"

// LinkPrefix is the fixed literal every room link starts with. The
// suffix is drawn from the uppercase alphabet, so the default length
// of 6 leaves 26^3 possible links. That space is intentionally small
// (links are typed and shared by humans) which makes collisions a
// realistic event; callers must resolve them, see service.LinkResolver.
const LinkPrefix = "RON"

// UngeneratedLink is returned when link generation fails internally.
// Callers must treat it as a generation failure and never persist it.
const UngeneratedLink = "ungenerated"

const linkAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateLink returns a candidate room link of the requested total
// length: the fixed prefix followed by random uppercase letters. It
// fails closed by returning UngeneratedLink when the length cannot
// accommodate the prefix or the random source errors.
func GenerateLink(length int) string {
	if length < len(LinkPrefix) {
		return UngeneratedLink
	}
	buf := make([]byte, length-len(LinkPrefix))
	if _, err := rand.Read(buf); err != nil {
		return UngeneratedLink
	}
	for i := range buf {
		buf[i] = linkAlphabet[int(buf[i])%len(linkAlphabet)]
	}
	return LinkPrefix + string(buf)
}
