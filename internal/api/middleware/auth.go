package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/contact-desk/config"
	"github.com/d60-Lab/contact-desk/pkg/logger"
	"github.com/d60-Lab/contact-desk/pkg/response"
)

// AdminUserKey 通过认证的管理员用户名
const AdminUserKey = "admin_user"

// BasicAuth 管理端 HTTP Basic 认证。
// 配置了 PasswordHash 时用 bcrypt 校验；否则启动时对明文密码做一次 bcrypt。
func BasicAuth(cfg config.AdminConfig) (gin.HandlerFunc, error) {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Admin Panel"
	}
	challenge := fmt.Sprintf("Basic realm=%q", realm)
	user := []byte(cfg.User)

	return func(c *gin.Context) {
		u, p, ok := c.Request.BasicAuth()
		userOK := ok && subtle.ConstantTimeCompare([]byte(u), user) == 1
		// 用户名错误时也做一次 bcrypt，避免时间差泄露
		passOK := ok && bcrypt.CompareHashAndPassword(hash, []byte(p)) == nil
		if !userOK || !passOK {
			if ok {
				logger.Warn("admin auth failed", zap.String("user", u), zap.String("ip", c.GetString(ClientIPKey)))
			}
			c.Header("WWW-Authenticate", challenge)
			response.Unauthorized(c, http.StatusText(http.StatusUnauthorized))
			return
		}
		c.Set(AdminUserKey, u)
		c.Next()
	}, nil
}
