package bilibili

import (
	"regexp"
)

// filterUrls 按白名单顺序筛选地址：先匹配第一条规则的地址排在最前。
// 同一地址匹配多条规则时会出现多次。
func filterUrls(urls []string, patterns []*regexp.Regexp) []string {
	res := make([]string, 0)
	for _, reg := range patterns {
		for _, u := range urls {
			if reg.MatchString(u) {
				res = append(res, u)
			}
		}
	}
	return res
}
