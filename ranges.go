package restiva

import (
	"fmt"
	"regexp"
	"strconv"
)

// rangeRE recognizes the single-range form bytes=<start>-<end?>. It is not
// anchored at the end on purpose: a multi-range header such as
// "bytes=0-5,10-15" matches its first range and the remainder is ignored,
// which is what the protocol has always done.
var rangeRE = regexp.MustCompile(`^bytes=(\d+)-(\d+)?`)

// ByteRange is a byte interval derived from a Range request header. Start
// and End are inclusive offsets; End is only meaningful when HasEnd is set.
// Length is the number of bytes the response declares, which a shorter file
// may undercut.
type ByteRange struct {
	Start  int64
	End    int64
	HasEnd bool
	Length int64
}

// ParseRange interprets a Range header value against the resource's total
// size. It returns ok=false for an absent, malformed, or suffix-form
// ("bytes=-N") header, in which case the caller serves the full content.
// Length is end-start+1 when an end is given, otherwise size-start.
func ParseRange(header string, size int64) (ByteRange, bool) {
	if header == "" {
		return ByteRange{}, false
	}

	m := rangeRE.FindStringSubmatch(header)
	if m == nil {
		return ByteRange{}, false
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return ByteRange{}, false
	}

	r := ByteRange{Start: start}

	if m[2] != "" {
		end, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return ByteRange{}, false
		}
		r.End = end
		r.HasEnd = true
		r.Length = end - start + 1
	} else {
		r.Length = size - start
	}

	return r, true
}

// ContentRange renders the interval for the Content-Range response header.
// The protocol uses the form "bytes=<start>-<end>", with an empty end when
// the range runs to the end of the resource.
func (r ByteRange) ContentRange() string {
	if r.HasEnd {
		return fmt.Sprintf("bytes=%d-%d", r.Start, r.End)
	}
	return fmt.Sprintf("bytes=%d-", r.Start)
}
