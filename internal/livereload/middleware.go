package livereload

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
)

// clientScript is injected into HTML pages so the browser reconnects to the
// reload endpoint and refreshes when notified. The onclose fallback retries
// after the server restarts.
const clientScript = `<script>
(function() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onmessage = function(ev) {
        try {
            var msg = JSON.parse(ev.data);
            if (msg.type === "reload") {
                window.location.reload();
            }
        } catch (e) {}
    };
    ws.onclose = function() {
        setTimeout(function() { window.location.reload(); }, 2000);
    };
})();
</script>`

// Middleware wraps next so successful HTML responses get the reload client
// script injected before the closing </body> tag. Non-HTML responses pass
// through untouched. Responses are buffered, which is acceptable for a
// development server.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &bufferingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		body := rec.buf.Bytes()
		if rec.status == http.StatusOK && isHTML(rec.Header().Get("Content-Type")) {
			body = injectScript(body)
		}

		rec.Header().Del("Content-Length")
		rec.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(rec.status)
		w.Write(body)
	})
}

// bufferingWriter captures status and body without flushing them, so the
// middleware can rewrite the body before anything reaches the wire.
type bufferingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	buf         bytes.Buffer
}

func (b *bufferingWriter) WriteHeader(status int) {
	if b.wroteHeader {
		return
	}
	b.status = status
	b.wroteHeader = true
}

func (b *bufferingWriter) Write(p []byte) (int, error) {
	if !b.wroteHeader {
		b.WriteHeader(http.StatusOK)
	}
	return b.buf.Write(p)
}

func isHTML(contentType string) bool {
	return strings.HasPrefix(contentType, "text/html")
}

func injectScript(body []byte) []byte {
	if idx := bytes.LastIndex(body, []byte("</body>")); idx >= 0 {
		out := make([]byte, 0, len(body)+len(clientScript))
		out = append(out, body[:idx]...)
		out = append(out, clientScript...)
		out = append(out, body[idx:]...)
		return out
	}
	return append(body, clientScript...)
}
