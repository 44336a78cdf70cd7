package internal

import (
	// import all lives
	_ "github.com/yuhaohwang/bilistream-hook/src/live/bilibili"
)
