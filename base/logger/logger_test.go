package logger

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInitLogger(t *testing.T) {
	Convey("InitLogger", t, func() {
		Convey("writes to a rotated file under path", func() {
			dir := t.TempDir()
			err := InitLogger("debug", "rock_cfd", dir, 24, 1, 10, "")
			So(err, ShouldBeNil)
			Infof("[TestInitLogger] hello %v", "file")
			Sync()

			_, err = os.Lstat(filepath.Join(dir, "rock_cfd.log"))
			So(err, ShouldBeNil)
		})

		Convey("unknown level falls back to info", func() {
			err := InitLogger("verbose", "rock_cfd", "", 0, 0, 0, "")
			So(err, ShouldBeNil)
			Debug("dropped")
			Info("kept")
		})
	})
}
