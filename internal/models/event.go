package models

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrMalformedLine 订阅输出行不是 "topic payload" 格式
var ErrMalformedLine = errors.New("malformed subscription line")

// Event 订阅流中的一条原始事件
type Event struct {
	Topic   string
	Payload []byte
}

// ParseLine 解析 mosquitto_sub -v 风格的一行：主题与负载之间以第一个空格分隔。
// 主题本身不含空格，负载可以包含空格。
func ParseLine(line []byte) (Event, error) {
	line = bytes.TrimRight(line, "\r\n")
	i := bytes.IndexByte(line, ' ')
	if i <= 0 {
		return Event{}, fmt.Errorf("%w: no topic separator", ErrMalformedLine)
	}
	payload := bytes.TrimSpace(line[i+1:])
	if len(payload) == 0 {
		return Event{}, fmt.Errorf("%w: empty payload", ErrMalformedLine)
	}
	return Event{
		Topic:   string(line[:i]),
		Payload: append([]byte(nil), payload...),
	}, nil
}
