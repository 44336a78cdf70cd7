// Package selector 使用用户提供的 JavaScript 脚本对候选直播流地址做进一步筛选。
//
// 脚本需要定义函数 accept(url, host)，返回真值表示保留该地址，例如：
//
//	function accept(url, host) { return host.indexOf("gotcha04") >= 0 }
package selector

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/robertkrimen/otto"
)

const acceptFunc = "accept"

// ErrNoAcceptFunc 表示脚本没有定义 accept 函数。
var ErrNoAcceptFunc = errors.New("脚本中没有定义 accept(url, host) 函数")

// Selector 对候选地址逐个求值。空脚本接受所有地址。
type Selector struct {
	lock sync.Mutex
	vm   *otto.Otto
}

// New 编译脚本。脚本为空时返回 nil，nil Selector 接受所有地址。
func New(script string) (*Selector, error) {
	if script == "" {
		return nil, nil
	}
	vm := otto.New()
	if _, err := vm.Run(script); err != nil {
		return nil, fmt.Errorf("筛选脚本无法执行: %w", err)
	}
	fn, err := vm.Get(acceptFunc)
	if err != nil {
		return nil, err
	}
	if !fn.IsFunction() {
		return nil, ErrNoAcceptFunc
	}
	return &Selector{vm: vm}, nil
}

// Accept 判断单个地址是否保留。
func (s *Selector) Accept(u string) (bool, error) {
	if s == nil {
		return true, nil
	}
	host := ""
	if parsed, err := url.Parse(u); err == nil {
		host = parsed.Host
	}

	// otto 的虚拟机不能并发使用。
	s.lock.Lock()
	defer s.lock.Unlock()
	v, err := s.vm.Call(acceptFunc, nil, u, host)
	if err != nil {
		return false, fmt.Errorf("筛选脚本执行出错: %w", err)
	}
	return v.ToBoolean()
}

// Filter 返回脚本接受的地址，保持原有顺序。
func (s *Selector) Filter(urls []string) ([]string, error) {
	if s == nil {
		return urls, nil
	}
	res := make([]string, 0, len(urls))
	for _, u := range urls {
		ok, err := s.Accept(u)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, u)
		}
	}
	return res, nil
}
