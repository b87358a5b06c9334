// Package cfemail decodes the Cloudflare email-protection scheme used by
// rommelmarkten.be to hide contact addresses from naive text scraping.
//
// The scheme is a fixed byte transposition with no cryptographic strength:
// hex(key) followed by hex(byte ^ key) for each plaintext byte. It appears
// in "/cdn-cgi/l/email-protection#<hex>" hrefs and data-cfemail attributes.
package cfemail
