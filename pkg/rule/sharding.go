package rule

import (
	"sort"
	"strings"

	"github.com/kasuganosora/shardmeta/pkg/resultmeta"
)

// DataNode 数据节点，一个数据源中的一张实际表
type DataNode struct {
	DataSource string
	Table      string
}

// String returns the node as "dataSource.table", or just the table when the
// data source is unknown.
func (n DataNode) String() string {
	if n.DataSource == "" {
		return n.Table
	}
	return n.DataSource + "." + n.Table
}

// ParseDataNode parses "ds.table". A bare table name lands on defaultDataSource.
func ParseDataNode(text, defaultDataSource string) DataNode {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '.'); i >= 0 {
		return DataNode{DataSource: text[:i], Table: text[i+1:]}
	}
	return DataNode{DataSource: defaultDataSource, Table: text}
}

// TableRule 分片表规则
type TableRule struct {
	logicTable      string
	actualDataNodes []DataNode
}

// NewTableRule 创建分片表规则
//
// An empty actualDataNodes expression means the logic table is not split and
// lives as-is on defaultDataSource.
func NewTableRule(logicTable, actualDataNodes, defaultDataSource string) (*TableRule, error) {
	rule := &TableRule{logicTable: logicTable}
	if strings.TrimSpace(actualDataNodes) == "" {
		rule.actualDataNodes = []DataNode{{DataSource: defaultDataSource, Table: logicTable}}
		return rule, nil
	}

	nodes, err := ExpandInlineExpression(actualDataNodes)
	if err != nil {
		return nil, err
	}
	for _, node := range nodes {
		rule.actualDataNodes = append(rule.actualDataNodes, ParseDataNode(node, defaultDataSource))
	}
	return rule, nil
}

// LogicTable 返回逻辑表名
func (r *TableRule) LogicTable() string {
	return r.logicTable
}

// ActualDataNodes 返回实际数据节点的副本
func (r *TableRule) ActualDataNodes() []DataNode {
	nodes := make([]DataNode, len(r.actualDataNodes))
	copy(nodes, r.actualDataNodes)
	return nodes
}

// ActualTableNames 返回去重后的实际表名，保持配置顺序
func (r *TableRule) ActualTableNames() []string {
	seen := make(map[string]bool, len(r.actualDataNodes))
	names := make([]string, 0, len(r.actualDataNodes))
	for _, node := range r.actualDataNodes {
		key := strings.ToLower(node.Table)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, node.Table)
	}
	return names
}

// IsActualTable reports whether name is one of the rule's actual tables.
func (r *TableRule) IsActualTable(name string) bool {
	for _, node := range r.actualDataNodes {
		if strings.EqualFold(node.Table, name) {
			return true
		}
	}
	return false
}

// ShardingRule 分片规则
//
// A ShardingRule is immutable once built and may be shared across goroutines.
type ShardingRule struct {
	tableRules        []*TableRule
	encryptRule       *EncryptRule
	defaultDataSource string
}

// NewShardingRule 创建分片规则，encryptRule 为 nil 时使用空加密规则
func NewShardingRule(tableRules []*TableRule, encryptRule *EncryptRule, defaultDataSource string) *ShardingRule {
	if encryptRule == nil {
		encryptRule = EmptyEncryptRule()
	}
	rules := make([]*TableRule, len(tableRules))
	copy(rules, tableRules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].logicTable < rules[j].logicTable
	})
	return &ShardingRule{
		tableRules:        rules,
		encryptRule:       encryptRule,
		defaultDataSource: defaultDataSource,
	}
}

// FindTableRule 按逻辑表名查找表规则
func (r *ShardingRule) FindTableRule(logicTable string) (*TableRule, bool) {
	for _, tableRule := range r.tableRules {
		if strings.EqualFold(tableRule.logicTable, logicTable) {
			return tableRule, true
		}
	}
	return nil, false
}

// FindTableRuleByActualTable 按实际表名查找表规则
func (r *ShardingRule) FindTableRuleByActualTable(actualTable string) (resultmeta.TableRule, bool) {
	for _, tableRule := range r.tableRules {
		if tableRule.IsActualTable(actualTable) {
			return tableRule, true
		}
	}
	return nil, false
}

// EncryptRule 返回分片规则携带的加密规则，不会为 nil
func (r *ShardingRule) EncryptRule() resultmeta.EncryptRule {
	return r.encryptRule
}

// Encrypt returns the concrete encrypt rule.
func (r *ShardingRule) Encrypt() *EncryptRule {
	return r.encryptRule
}

// TableRules 返回全部表规则
func (r *ShardingRule) TableRules() []*TableRule {
	rules := make([]*TableRule, len(r.tableRules))
	copy(rules, r.tableRules)
	return rules
}

// LogicTableNames 返回所有逻辑表名，按字母排序
func (r *ShardingRule) LogicTableNames() []string {
	names := make([]string, 0, len(r.tableRules))
	for _, tableRule := range r.tableRules {
		names = append(names, tableRule.logicTable)
	}
	return names
}

// DefaultDataSource 返回默认数据源名称
func (r *ShardingRule) DefaultDataSource() string {
	return r.defaultDataSource
}
