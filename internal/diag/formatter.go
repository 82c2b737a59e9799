package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// componentFormatter is the teacher's %time/%level/%field/%msg pattern
// collapsed to the one layout this module's background loops need; unlike
// the teacher's configurable pattern string, the layout here is fixed since
// nothing reads it back as structured data.
type componentFormatter struct{}

func (f *componentFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(entry.Time.Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(strings.ToUpper(entry.Level.String()))
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	if len(entry.Data) > 0 {
		b.WriteByte(' ')
		b.WriteString(buildFields(entry))
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func buildFields(entry *logrus.Entry) string {
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", k, entry.Data[k]))
	}
	return strings.Join(fields, " ")
}
