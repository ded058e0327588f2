package common

import (
	"os"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a new snowflake id.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
