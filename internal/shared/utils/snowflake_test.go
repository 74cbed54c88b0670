package utils

import "testing"

func TestIDNode_单调递增且带节点号(t *testing.T) {
	n, err := NewIDNode(7)
	if err != nil {
		t.Fatalf("NewIDNode err=%v", err)
	}
	var prev int64
	for i := 0; i < 5000; i++ {
		id, err := n.Next()
		if err != nil {
			t.Fatalf("Next err=%v", err)
		}
		if id <= prev {
			t.Fatalf("id 未递增: prev=%d id=%d", prev, id)
		}
		if NodeOf(id) != 7 {
			t.Fatalf("node got=%d", NodeOf(id))
		}
		prev = id
	}
}

func TestIDNode_时钟回拨不回退(t *testing.T) {
	n, _ := NewIDNode(1)
	clock := int64(1767225600000 + 1000)
	n.now = func() int64 { return clock }
	a, _ := n.Next()
	clock -= 500
	b, _ := n.Next()
	if b <= a {
		t.Fatalf("回拨后 id 回退: a=%d b=%d", a, b)
	}
}

func TestNewIDNode_节点号越界(t *testing.T) {
	if _, err := NewIDNode(1024); err == nil {
		t.Fatalf("期望越界报错")
	}
}

func TestNodeIDFromEnv(t *testing.T) {
	t.Setenv(NodeIDEnv, "")
	if id, err := NodeIDFromEnv(); err != nil || id != 1 {
		t.Fatalf("default got=%d err=%v", id, err)
	}
	t.Setenv(NodeIDEnv, "12")
	if id, err := NodeIDFromEnv(); err != nil || id != 12 {
		t.Fatalf("got=%d err=%v", id, err)
	}
	t.Setenv(NodeIDEnv, "abc")
	if _, err := NodeIDFromEnv(); err == nil {
		t.Fatalf("期望解析失败")
	}
}
