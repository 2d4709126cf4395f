// compileinfoprint is imported for the side effect of logging the compileinfo
// when the binary starts.
package compileinfoprint

import "github.com/carbocation/snpstat/compileinfo"

func init() {
	compileinfo.Log()
}
