package utils

import (
	"net/url"
	"strconv"
	"strings"
)

// ListParam собирает значения параметра из "name[]=a&name[]=b", "name=a&name=b" и "name=a,b".
func ListParam(values url.Values, name string) []string {
	raw := values[name+"[]"]
	if len(raw) == 0 {
		raw = values[name]
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func ParseUint64Slice(s []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(s))
	for _, v := range s {
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
