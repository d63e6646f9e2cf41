package validation

import "strings"

var plusTagDomains = map[string]bool{
	"outlook.com": true,
	"hotmail.com": true,
	"live.com":    true,
	"icloud.com":  true,
	"me.com":      true,
	"mac.com":     true,
}

// NormalizeEmail 统一小写并按邮箱服务商规则去掉别名后缀
func NormalizeEmail(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return addr
	}
	local, domain := addr[:at], addr[at+1:]

	switch {
	case domain == "gmail.com" || domain == "googlemail.com":
		local = cutTag(local, "+")
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	case plusTagDomains[domain]:
		local = cutTag(local, "+")
	case strings.HasPrefix(domain, "yahoo."):
		local = cutTag(local, "-")
	}

	if local == "" {
		return addr
	}
	return local + "@" + domain
}

func cutTag(local, sep string) string {
	if i := strings.Index(local, sep); i > 0 {
		return local[:i]
	}
	return local
}
