package snowflake

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// GeneratorType 区分不同业务的 ID 序列，避免互相挤占节点号。
type GeneratorType int

const (
	GeneratorTypeMessage GeneratorType = iota // MQ 消息 ID
	GeneratorTypeHabit                        // 习惯对外 ID
	GeneratorTypeSession                      // 恢复计划会话 ID
	GeneratorTypeBadge                        // 徽章授予记录 ID
	GeneratorTypeEvent                        // 关怀事件 ID
	generatorTypeCount
)

var (
	nodes [generatorTypeCount]*snowflake.Node
	once  sync.Once

	errInvalidMachineID   = errors.New("invalid snowflake machine id")
	errGeneratorUninitial = errors.New("snowflake generator is not initialized")
	errUnknownGenerator   = errors.New("unknown snowflake generator type")
)

func Init(machineID, dataCenterID int64) error {
	var initErr error

	once.Do(func() {
		if machineID < 0 || machineID > 31 {
			initErr = errInvalidMachineID
			return
		}

		// 每个实例占用连续的一段节点号，按生成器类型错开
		for t := GeneratorType(0); t < generatorTypeCount; t++ {
			nodeID := (dataCenterID*32+machineID)*int64(generatorTypeCount) + int64(t)

			node, err := snowflake.NewNode(nodeID % 1024)
			if err != nil {
				initErr = err
				return
			}
			nodes[t] = node
		}
	})

	return initErr
}

func NextID(t GeneratorType) (int64, error) {
	if t < 0 || t >= generatorTypeCount {
		return 0, errUnknownGenerator
	}

	node := nodes[t]
	if node == nil {
		return 0, errGeneratorUninitial
	}

	return node.Generate().Int64(), nil
}
