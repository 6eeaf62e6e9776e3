package job

import "github.com/smtrain/xlarun/log"

// ForwardArgs rebuilds a training command line from the flat flag/value
// pairs passed down by the job submission layer, which encodes every
// hyper-parameter, including booleans, as a string value. A "True"
// value emits the bare flag, "False" drops the pair, anything else is
// forwarded as flag and value. Pair order is preserved.
func ForwardArgs(flat []string) []string {
	var args []string
	if len(flat)%2 != 0 {
		log.Warnf("odd number of forwarded args, dropping trailing %q", flat[len(flat)-1])
		flat = flat[:len(flat)-1]
	}
	for i := 0; i < len(flat); i += 2 {
		flag, value := flat[i], flat[i+1]
		switch value {
		case `True`:
			args = append(args, flag)
		case `False`:
		default:
			args = append(args, flag, value)
		}
	}
	return args
}
