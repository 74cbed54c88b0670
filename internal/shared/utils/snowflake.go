package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// NodeIDEnv 多实例部署时每个实例要设置不同的节点号。
const NodeIDEnv = "WAYFARER_NODE_ID"

const (
	// 2026-01-01 00:00:00 UTC，单位毫秒
	idEpochMilli int64 = 1767225600000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	maxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift uint8 = seqBits
	timeShift uint8 = nodeBits + seqBits
)

// IDNode 雪花 id：41 位毫秒时间 + 10 位节点 + 12 位序号。世界 id 由它分配。
type IDNode struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
	now    func() int64
}

func NewIDNode(nodeID int64) (*IDNode, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("id node out of range: %d", nodeID)
	}
	return &IDNode{nodeID: nodeID, now: func() int64 { return time.Now().UnixMilli() }}, nil
}

// NodeIDFromEnv 未设置时为 1。
func NodeIDFromEnv() (int64, error) {
	raw := strings.TrimSpace(os.Getenv(NodeIDEnv))
	if raw == "" {
		return 1, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", NodeIDEnv, err)
	}
	return id, nil
}

// Next 单调递增；时钟回拨时沿用上一次的时间戳。
func (n *IDNode) Next() (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ts := n.now()
	if ts < n.lastTS {
		ts = n.lastTS
	}
	if ts == n.lastTS {
		n.seq = (n.seq + 1) & maxSeq
		if n.seq == 0 {
			for ts <= n.lastTS {
				ts = n.now()
			}
		}
	} else {
		n.seq = 0
	}

	n.lastTS = ts
	return ((ts - idEpochMilli) << timeShift) | (n.nodeID << nodeShift) | n.seq, nil
}

// NodeOf 从 id 中取回节点号。
func NodeOf(id int64) int64 {
	return (id >> nodeShift) & maxNodeID
}
