package kafka

import (
	"fmt"
	"strconv"
)

const (
	canalInsert = "INSERT"
	canalUpdate = "UPDATE"
	canalDelete = "DELETE"
)

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`
	SQL      string   `json:"sql"`

	// Data 存储变更后的数据
	Data []map[string]interface{} `json:"data"`

	// Old 存储变更前的数据，仅包含被修改的列
	Old []map[string]interface{} `json:"old"`

	SqlType   map[string]int    `json:"sqlType"`
	MysqlType map[string]string `json:"mysqlType"`
}

// Changed UPDATE 时判断第 i 行的 column 是否被修改，其余类型视为已修改
func (m *CanalMessage) Changed(i int, column string) bool {
	if m.Type != canalUpdate {
		return true
	}
	if i >= len(m.Old) || m.Old[i] == nil {
		return false
	}
	_, ok := m.Old[i][column]
	return ok
}

// rowString canal flat message 的列值均为字符串，null 为 nil
func rowString(row map[string]interface{}, key string) string {
	switch v := row[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func rowUint(row map[string]interface{}, key string) (uint64, error) {
	switch v := row[key].(type) {
	case string:
		return strconv.ParseUint(v, 10, 64)
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("negative %s: %v", key, v)
		}
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("missing %s", key)
	}
}
