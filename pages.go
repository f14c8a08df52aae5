package main

// ==========================================
// EMBEDDED WEB PAGES
// ==========================================

// controlPage is the main dashboard: mode, colors and sliders backed by
// /api/config, plus a live ring preview fed over the websocket.
const controlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>LED Clock</title>
<style>
body { font-family: sans-serif; background: #111; color: #eee; margin: 0; padding: 20px; }
.card { background: #1c1c1c; border-radius: 8px; padding: 16px; max-width: 420px; margin: 0 auto 16px; }
h1 { font-size: 1.3em; text-align: center; }
label { display: block; margin: 10px 0 4px; }
select, input[type=range] { width: 100%; }
input[type=color] { width: 100%; height: 32px; border: none; background: none; }
button { width: 100%; padding: 10px; margin-top: 12px; background: #2a6; color: #fff; border: none; border-radius: 6px; font-size: 1em; }
canvas { display: block; margin: 0 auto; }
#status { text-align: center; color: #888; font-size: 0.85em; }
a { color: #6ac; }
</style>
</head>
<body>
<div class="card">
<h1>LED Clock</h1>
<canvas id="ring" width="260" height="260"></canvas>
<p id="status"></p>
</div>
<div class="card">
<label>Mode</label>
<select id="mode">
<option value="standard">Standard</option>
<option value="trail">Trail</option>
<option value="pulse">Pulse</option>
<option value="rainbow">Rainbow</option>
</select>
<label>Hour color</label><input type="color" id="hour_color">
<label>Minute color</label><input type="color" id="minute_color">
<label>Second color</label><input type="color" id="second_color">
<label>Marker color</label><input type="color" id="marker_color">
<label>Background color</label><input type="color" id="background_color">
<label>Brightness <span id="brightness_v"></span></label>
<input type="range" id="brightness" min="0" max="1" step="0.05">
<label>Trail length <span id="trail_length_v"></span></label>
<input type="range" id="trail_length" min="1" max="10" step="1">
<label>Pulse speed <span id="pulse_speed_v"></span></label>
<input type="range" id="pulse_speed" min="1" max="10" step="1">
<label>Rainbow speed <span id="rainbow_speed_v"></span></label>
<input type="range" id="rainbow_speed" min="1" max="10" step="1">
</div>
<div class="card">
<p style="text-align:center"><a href="/wifi-setup">WiFi settings</a></p>
</div>
<script>
const colors = ['hour_color','minute_color','second_color','marker_color','background_color'];
const sliders = ['brightness','trail_length','pulse_speed','rainbow_speed'];
const hex = rgb => '#' + rgb.map(v => v.toString(16).padStart(2,'0')).join('');
const rgb = h => [1,3,5].map(i => parseInt(h.substr(i,2),16));

async function load() {
  const c = await (await fetch('/api/config')).json();
  document.getElementById('mode').value = c.mode;
  for (const k of colors) document.getElementById(k).value = hex(c[k]);
  for (const k of sliders) {
    document.getElementById(k).value = c[k];
    document.getElementById(k + '_v').textContent = c[k];
  }
}
function post(body) { fetch('/api/config', {method:'POST', body: JSON.stringify(body)}); }
document.getElementById('mode').onchange = e => post({mode: e.target.value});
for (const k of colors) document.getElementById(k).oninput = e => post({[k]: rgb(e.target.value)});
for (const k of sliders) document.getElementById(k).oninput = e => {
  document.getElementById(k + '_v').textContent = e.target.value;
  post({[k]: parseFloat(e.target.value)});
};

const ctx = document.getElementById('ring').getContext('2d');
function draw(pixels) {
  ctx.clearRect(0, 0, 260, 260);
  for (let i = 0; i < 60; i++) {
    const a = (i / 60) * 2 * Math.PI - Math.PI / 2;
    const p = pixels[i];
    ctx.fillStyle = 'rgb(' + p.R + ',' + p.G + ',' + p.B + ')';
    ctx.beginPath();
    ctx.arc(130 + 110 * Math.cos(a), 130 + 110 * Math.sin(a), 5, 0, 2 * Math.PI);
    ctx.fill();
    ctx.strokeStyle = '#333';
    ctx.stroke();
  }
}
function connect() {
  const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
  ws.onmessage = e => draw(JSON.parse(e.data).pixels);
  ws.onclose = () => setTimeout(connect, 2000);
}
async function netStatus() {
  const s = await (await fetch('/api/network-status')).json();
  document.getElementById('status').textContent =
    s.ap_mode ? 'Access point: ' + s.network_name : 'Network: ' + (s.network_name || 'offline');
}
load(); connect(); netStatus(); setInterval(netStatus, 10000);
</script>
</body>
</html>`

// wifiSetupPage is what a phone sees after joining the fallback access
// point: enter home network credentials, optionally change the AP ones,
// restart to apply.
const wifiSetupPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>LED Clock Setup</title>
<style>
body { font-family: sans-serif; background: #111; color: #eee; margin: 0; padding: 20px; }
.card { background: #1c1c1c; border-radius: 8px; padding: 16px; max-width: 420px; margin: 0 auto 16px; }
h1 { font-size: 1.3em; text-align: center; }
label { display: block; margin: 10px 0 4px; }
input { width: 100%; padding: 8px; box-sizing: border-box; background: #2a2a2a; color: #eee; border: 1px solid #444; border-radius: 4px; }
button { width: 100%; padding: 10px; margin-top: 12px; background: #2a6; color: #fff; border: none; border-radius: 6px; font-size: 1em; }
#msg { text-align: center; }
img { display: block; margin: 12px auto; background: #fff; padding: 8px; border-radius: 4px; }
a { color: #6ac; }
</style>
</head>
<body>
<div class="card">
<h1>WiFi Setup</h1>
<label>Network name (SSID)</label>
<input id="wifi_ssid" autocomplete="off">
<label>Password</label>
<input id="wifi_password" type="password">
<button onclick="save()">Save</button>
<p id="msg"></p>
</div>
<div class="card">
<h1>Access Point</h1>
<label>AP name</label>
<input id="ap_ssid">
<label>AP password (min 8 characters)</label>
<input id="ap_password">
<img src="/api/ap-qr.png" width="180" height="180" alt="AP join QR">
<button onclick="saveAP()">Save AP settings</button>
</div>
<div class="card">
<button style="background:#a44" onclick="restart()">Restart clock</button>
<p style="text-align:center"><a href="/">Back to controls</a></p>
</div>
<script>
async function load() {
  const c = await (await fetch('/api/wifi-config')).json();
  document.getElementById('wifi_ssid').value = c.wifi_ssid;
  document.getElementById('ap_ssid').value = c.ap_ssid;
  document.getElementById('ap_password').value = c.ap_password;
}
async function send(body) {
  const r = await fetch('/api/wifi-config', {method:'POST', body: JSON.stringify(body)});
  const j = await r.json();
  document.getElementById('msg').textContent = r.ok ? 'Saved. Restart to apply.' : j.error;
  return r.ok;
}
function save() {
  send({wifi_ssid: document.getElementById('wifi_ssid').value,
        wifi_password: document.getElementById('wifi_password').value});
}
function saveAP() {
  send({ap_ssid: document.getElementById('ap_ssid').value,
        ap_password: document.getElementById('ap_password').value});
}
function restart() {
  fetch('/restart', {method:'POST'});
  document.getElementById('msg').textContent = 'Restarting...';
}
load();
</script>
</body>
</html>`
