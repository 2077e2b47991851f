package live

import (
	"encoding/json"
	"fmt"
	"strings"

	"iyftv/internal/adblock"
	"iyftv/internal/classify"
)

// Class names and element ids shared by the injected CSS and scripts
const (
	focusableClass = "iyf-tv-focusable"
	focusedClass   = "iyf-tv-focused"
	containerClass = "iyf-tv-mod-container"
	toastClass     = "iyf-tv-mod-notification"
	overlayID      = "iyf-tv-control-overlay"
	keyBinding     = "iyfKey"
)

const styleTemplate = `
.%[2]s { outline: none; transition: transform .15s ease, box-shadow .15s ease; }
.%[3]s { transform: scale(1.05); box-shadow: 0 0 0 4px %[1]s, 0 8px 24px rgba(0,0,0,.5); z-index: 10; position: relative; }
.%[4]s { position: fixed; inset: 0; pointer-events: none; z-index: 9999; }
.%[5]s { position: fixed; bottom: 20px; right: 20px; background: rgba(0,0,0,.8); color: #fff;
  padding: 15px 20px; border-radius: 8px; font-size: 16px; pointer-events: auto;
  animation: iyfSlideIn .3s ease-out; }
.%[5]s.leaving { animation: iyfSlideIn .3s ease-out reverse; }
@keyframes iyfSlideIn { from { transform: translateX(100%%); opacity: 0; } to { transform: translateX(0); opacity: 1; } }
#%[6]s { position: fixed; left: 50%%; bottom: 60px; transform: translateX(-50%%); display: none;
  background: %[1]s; color: #fff; padding: 16px 24px; border-radius: 12px; z-index: 10000; font-size: 18px; }
#%[6]s.visible { display: block; }
#%[6]s .row { display: flex; gap: 24px; justify-content: center; }
`

const overlayMarkup = `<div class="row"><div>⏮ Rewind</div><div>⏯ Play/Pause</div><div>⏭ Forward</div></div><div class="row"><div>🔊 Volume</div></div>`

// installScript injects styles, the toast container, the overlay and the
// remote key listener. It runs on every new document and is idempotent.
func installScript(focusColor string) string {
	css := fmt.Sprintf(styleTemplate, focusColor, focusableClass, focusedClass, containerClass, toastClass, overlayID)
	return fmt.Sprintf(`(() => {
  const setup = () => {
    if (document.getElementById('iyf-tv-style')) return;
    const style = document.createElement('style');
    style.id = 'iyf-tv-style';
    style.textContent = %[1]s;
    document.head.appendChild(style);
    const container = document.createElement('div');
    container.className = %[2]s;
    document.body.appendChild(container);
    const overlay = document.createElement('div');
    overlay.id = %[3]s;
    overlay.innerHTML = %[4]s;
    document.body.appendChild(overlay);
  };
  if (document.readyState === 'loading') {
    document.addEventListener('DOMContentLoaded', setup);
  } else {
    setup();
  }
  if (!window.__iyfKeys) {
    window.__iyfKeys = true;
    const codes = [13, 27, 32, 37, 38, 39, 40, 415];
    document.addEventListener('keydown', (e) => {
      const code = e.keyCode || e.which;
      if (!codes.includes(code)) return;
      const target = document.activeElement ? document.activeElement.tagName : '';
      if (target === 'INPUT' || target === 'TEXTAREA') return;
      e.preventDefault();
      e.stopPropagation();
      if (window.%[5]s) window.%[5]s(JSON.stringify({code: code, target: target}));
    }, true);
  }
  return true;
})()`, jsString(css), jsString(containerClass), jsString(overlayID), jsString(overlayMarkup), keyBinding)
}

// stampScript gives every candidate and ad element a stable id and records
// its rectangle, then returns the page markup
func stampScript() string {
	selectors := strings.Join(append(append([]string{}, classify.CandidateSelectors...), adblock.Selectors...), ", ")
	return fmt.Sprintf(`(() => {
  window.__iyfNext = window.__iyfNext || 0;
  document.querySelectorAll(%[1]s).forEach((el) => {
    if (!el.hasAttribute(%[2]s)) {
      el.setAttribute(%[2]s, 'iyf-' + (window.__iyfNext++));
    }
    const r = el.getBoundingClientRect();
    el.setAttribute(%[3]s, [r.top, r.left, r.width, r.height].join(','));
  });
  return document.documentElement.outerHTML;
})()`, jsString(selectors), jsString(classify.IDAttr), jsString(classify.RectAttr))
}

func removeScript(ids []string) string {
	return fmt.Sprintf(`(() => {
  let n = 0;
  for (const id of %[1]s) {
    const el = document.querySelector('[%[2]s="' + id + '"]');
    if (el) { el.remove(); n++; }
  }
  return n;
})()`, jsValue(ids), classify.IDAttr)
}

func focusScript(id string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector('[%[2]s="' + %[1]s + '"]');
  if (!el) return false;
  document.querySelectorAll('.%[4]s').forEach((other) => other.classList.remove(%[5]s));
  if (el.tabIndex < 0) el.setAttribute('tabindex', '0');
  el.classList.add(%[3]s, %[5]s);
  el.focus({preventScroll: true});
  el.scrollIntoView({behavior: 'smooth', block: 'center', inline: 'center'});
  return true;
})()`, jsString(id), classify.IDAttr, jsString(focusableClass), focusedClass, jsString(focusedClass))
}

func activateScript(id, kind string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector('[%[2]s="' + %[1]s + '"]');
  if (!el) return false;
  switch (%[3]s) {
  case 'follow':
    window.location.href = el.href;
    return true;
  case 'link': {
    const link = el.querySelector('a[href]');
    if (!link) return false;
    link.click();
    return true;
  }
  default:
    el.click();
    return true;
  }
})()`, jsString(id), classify.IDAttr, jsString(kind))
}

func toastScript(message string, durationMS int64) string {
	return fmt.Sprintf(`(() => {
  const container = document.querySelector('.%[3]s');
  if (!container) return false;
  const toast = document.createElement('div');
  toast.className = %[4]s;
  toast.textContent = %[1]s;
  container.appendChild(toast);
  setTimeout(() => {
    toast.classList.add('leaving');
    setTimeout(() => toast.remove(), 300);
  }, %[2]d);
  return true;
})()`, jsString(message), durationMS, containerClass, jsString(toastClass))
}

func overlayScript(visible bool) string {
	return fmt.Sprintf(`(() => {
  const overlay = document.getElementById(%[1]s);
  if (!overlay) return false;
  overlay.classList.toggle('visible', %[2]t);
  return true;
})()`, jsString(overlayID), visible)
}

const videoStateScript = `(() => {
  const v = document.querySelector('video');
  if (!v) return null;
  const finite = (x) => (isFinite(x) ? x : 0);
  return {
    paused: v.paused,
    ended: v.ended,
    currentTime: finite(v.currentTime),
    duration: finite(v.duration),
    volume: v.volume,
    playbackRate: v.playbackRate,
  };
})()`

func videoCommitScript(s jsVideoState) string {
	return fmt.Sprintf(`(() => {
  const v = document.querySelector('video');
  if (!v) return false;
  const s = %[1]s;
  if (Math.abs(v.currentTime - s.currentTime) > 0.01) v.currentTime = s.currentTime;
  v.volume = s.volume;
  v.playbackRate = s.playbackRate;
  if (s.paused && !v.paused) v.pause();
  if (!s.paused && v.paused) v.play();
  return true;
})()`, jsValue(s))
}

func jsString(s string) string {
	return jsValue(s)
}

// jsValue renders v as a JavaScript literal. JSON is a subset of JS for the
// values used here.
func jsValue(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
