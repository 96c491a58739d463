// Copyright 2025 Mockd LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package faker

import (
	"encoding/binary"
	"fmt"
	mathrand "math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Func produces a single fake value. A nil rng falls back to the global
// math/rand/v2 source.
type Func func(rng *mathrand.Rand) string

// epoch anchors generated dates so seeded runs stay reproducible.
var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

var titleCaser = cases.Title(language.English)

var funcs = map[string]Func{
	"uuid":      UUID,
	"ulid":      ULID,
	"name":      func(r *mathrand.Rand) string { return pick(r, firstNames) + " " + pick(r, lastNames) },
	"firstName": func(r *mathrand.Rand) string { return pick(r, firstNames) },
	"lastName":  func(r *mathrand.Rand) string { return pick(r, lastNames) },
	"email":     Email,
	"phone":     func(r *mathrand.Rand) string { return "+1-555-" + digits(r, 3) + "-" + digits(r, 4) },
	"username":  func(r *mathrand.Rand) string { return strings.ToLower(pick(r, firstNames)) + digits(r, 2) },
	"address":   address,
	"city":      func(r *mathrand.Rand) string { return pick(r, cities) },
	"country":   func(r *mathrand.Rand) string { return pick(r, countries) },
	"zip":       func(r *mathrand.Rand) string { return digits(r, 5) },
	"company":   func(r *mathrand.Rand) string { return pick(r, companies) + " " + pick(r, companySuffixes) },
	"jobTitle": func(r *mathrand.Rand) string {
		return pick(r, jobLevels) + " " + pick(r, jobFields) + " " + pick(r, jobRoles)
	},
	"ipv4":         IPv4,
	"ipv6":         IPv6,
	"hostname":     Hostname,
	"url":          URL,
	"userAgent":    func(r *mathrand.Rand) string { return pick(r, userAgents) },
	"currencyCode": func(r *mathrand.Rand) string { return pick(r, currencyCodes) },
	"price":        func(r *mathrand.Rand) string { return fmt.Sprintf("%d.%02d", intN(r, 999)+1, intN(r, 100)) },
	"productName":  productName,
	"color":        func(r *mathrand.Rand) string { return pick(r, colors) },
	"word":         Word,
	"slug":         slug,
	"sentence":     Sentence,
	"title":        Title,
	"date":         func(r *mathrand.Rand) string { return randomTime(r).Format(time.DateOnly) },
	"dateTime":     func(r *mathrand.Rand) string { return randomTime(r).Format(time.RFC3339) },
	"time":         func(r *mathrand.Rand) string { return randomTime(r).Format("15:04:05Z") },
}

// Names returns the registered faker names in sorted order.
func Names() []string {
	names := make([]string, 0, len(funcs))
	for name := range funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the faker registered under name.
func Lookup(name string) (Func, bool) {
	fn, ok := funcs[name]
	return fn, ok
}

// ByFormat maps a JSON Schema string format to a faker. Unknown formats
// report false so callers can fall back to plain strings.
func ByFormat(format string) (Func, bool) {
	switch strings.ToLower(format) {
	case "email", "idn-email":
		return Email, true
	case "uuid":
		return UUID, true
	case "uri", "url", "iri":
		return URL, true
	case "hostname", "idn-hostname":
		return Hostname, true
	case "ipv4":
		return IPv4, true
	case "ipv6":
		return IPv6, true
	case "date":
		return funcs["date"], true
	case "date-time", "datetime":
		return funcs["dateTime"], true
	case "time":
		return funcs["time"], true
	}
	return nil, false
}

// UUID generates a version 4 UUID from rng so seeded runs are reproducible.
func UUID(rng *mathrand.Rand) string {
	if rng == nil {
		return uuid.New().String()
	}
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], rng.Uint64())
	binary.BigEndian.PutUint64(b[8:], rng.Uint64())
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// crockford is the ULID alphabet; it omits I, L, O and U.
const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ULID generates a 26-character sortable identifier whose timestamp part
// falls in the same range as generated dates.
func ULID(rng *mathrand.Rand) string {
	ms := uint64(randomTime(rng).UnixMilli())
	var entropy [10]byte
	binary.BigEndian.PutUint64(entropy[:8], randUint64(rng))
	binary.BigEndian.PutUint16(entropy[8:], uint16(randUint64(rng)))

	// 48-bit timestamp in 10 characters, then 80 random bits in 16
	out := make([]byte, 26)
	for i := 9; i >= 0; i-- {
		out[i] = crockford[ms&0x1f]
		ms >>= 5
	}
	hi := binary.BigEndian.Uint16(entropy[:2])
	lo := binary.BigEndian.Uint64(entropy[2:])
	for i := 25; i >= 10; i-- {
		out[i] = crockford[lo&0x1f]
		lo = lo>>5 | uint64(hi&0x1f)<<59
		hi >>= 5
	}
	return string(out)
}

func randUint64(rng *mathrand.Rand) uint64 {
	if rng != nil {
		return rng.Uint64()
	}
	return mathrand.Uint64()
}

// Email generates an address on one of the reserved example domains.
func Email(rng *mathrand.Rand) string {
	return strings.ToLower(pick(rng, firstNames)) + "." +
		strings.ToLower(pick(rng, lastNames)) + "@" + pick(rng, emailDomains)
}

// IPv4 generates a dotted-quad address.
func IPv4(rng *mathrand.Rand) string {
	return fmt.Sprintf("%d.%d.%d.%d", intN(rng, 256), intN(rng, 256), intN(rng, 256), intN(rng, 256))
}

// IPv6 generates an address in full expanded notation.
func IPv6(rng *mathrand.Rand) string {
	groups := make([]string, 8)
	for i := range groups {
		groups[i] = fmt.Sprintf("%04x", intN(rng, 65536))
	}
	return strings.Join(groups, ":")
}

// Hostname generates a host under example.com.
func Hostname(rng *mathrand.Rand) string {
	return Word(rng) + ".example.com"
}

// URL generates an https URL under example.com.
func URL(rng *mathrand.Rand) string {
	return "https://example.com/" + slug(rng)
}

// Word returns a single lowercase word.
func Word(rng *mathrand.Rand) string {
	return pick(rng, words)
}

// Sentence returns five to ten words with a capital and a trailing period.
func Sentence(rng *mathrand.Rand) string {
	n := 5 + intN(rng, 6)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = Word(rng)
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// Title returns two to four title-cased words.
func Title(rng *mathrand.Rand) string {
	n := 2 + intN(rng, 3)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = Word(rng)
	}
	return titleCaser.String(strings.Join(parts, " "))
}

// Letters returns n random lowercase ASCII letters.
func Letters(rng *mathrand.Rand, n int) string {
	const chars = "abcdefghijklmnopqrstuvwxyz"
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = chars[intN(rng, len(chars))]
	}
	return string(buf)
}

func address(rng *mathrand.Rand) string {
	return fmt.Sprintf("%d %s, %s", intN(rng, 9999)+1, pick(rng, streets), pick(rng, cities))
}

func productName(rng *mathrand.Rand) string {
	return pick(rng, productAdjectives) + " " + pick(rng, productMaterials) + " " + pick(rng, productNouns)
}

func slug(rng *mathrand.Rand) string {
	n := 2 + intN(rng, 2)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = Word(rng)
	}
	return strings.Join(parts, "-")
}

func randomTime(rng *mathrand.Rand) time.Time {
	return epoch.Add(time.Duration(intN(rng, 5*365*24*3600)) * time.Second)
}

func digits(rng *mathrand.Rand, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte('0' + intN(rng, 10))
	}
	return string(buf)
}

func pick(rng *mathrand.Rand, values []string) string {
	return values[intN(rng, len(values))]
}

func intN(rng *mathrand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	if rng != nil {
		return rng.IntN(n)
	}
	return mathrand.IntN(n)
}
