package challenge

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	minOperand = 1
	maxOperand = 10
)

// Challenge 一道算术验证题，答案随题目一起返回给客户端并由客户端回传
type Challenge struct {
	Question string `json:"question"`
	Answer   int    `json:"answer"`
}

// Generator 生成加法验证题
type Generator struct {
	mu   sync.Mutex
	intn func(n int) int
}

// NewGenerator 使用时间种子的随机源
func NewGenerator() *Generator {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Generator{intn: r.Intn}
}

// NewGeneratorWith 注入随机函数，intn(n) 需返回 [0,n) 内的整数
func NewGeneratorWith(intn func(n int) int) *Generator {
	return &Generator{intn: intn}
}

// Generate 两个 [1,10] 内的整数求和
func (g *Generator) Generate() Challenge {
	g.mu.Lock()
	a := minOperand + g.intn(maxOperand-minOperand+1)
	b := minOperand + g.intn(maxOperand-minOperand+1)
	g.mu.Unlock()

	return Challenge{
		Question: fmt.Sprintf("%d + %d = ?", a, b),
		Answer:   a + b,
	}
}
