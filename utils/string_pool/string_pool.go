package string_pool

import (
	"unsafe"
)

/**
字符串池
加载表时复用单元格字符串，减少内存碎片
调用方法即 Intern, 非并发安全
*/

const blkSize = 1024 * 1024 // 1MB

type Pool struct {
	ss map[string]string
	ms memory
}

type memory struct {
	ms   [][]byte
	free int
}

func NewCap(cap int) *Pool {
	return &Pool{
		ss: make(map[string]string, cap),
		ms: memory{
			ms:   [][]byte{make([]byte, blkSize)},
			free: 0,
		},
	}
}

// Intern 即 Java 代码 String::intern
func (p *Pool) Intern(s string) string {
	if pooled, ok := p.ss[s]; ok {
		return pooled
	}
	sv := p.ms.RAII(s)
	p.ss[sv] = sv
	return sv
}

func (p *Pool) Len() int {
	return len(p.ss)
}

func (m *memory) RAII(s string) string {
	if len(s) == 0 {
		return ""
	}
	// 超过块大小的字符串单独分配
	if len(s) > blkSize {
		return stringView([]byte(s))
	}
	blk := m.ms[len(m.ms)-1]
	if m.free+len(s) > blkSize {
		blk = make([]byte, blkSize)
		m.ms = append(m.ms, blk)
		m.free = 0
	}

	mem := blk[m.free:]
	copy(mem, s)
	sv := stringView(mem[:len(s)])
	m.free += len(s)
	return sv
}

func stringView(data []byte) string {
	return unsafe.String(unsafe.SliceData(data), len(data))
}
